package routes_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specroute/specroute/contract"
	"github.com/specroute/specroute/models"
	"github.com/specroute/specroute/routes"
	"github.com/specroute/specroute/validator"
)

const (
	companyPath = "/Company/BasicInfo"
	brewerPath  = "/draft/Appliances/CoffeeBrewer"
	weatherPath = "/Weather/Station/Status"
)

func definitionsRouter(t *testing.T, opts ...routes.Option) *routes.SpecRouter {
	t.Helper()
	r, err := routes.NewSpecRouter(filepath.Join("testdata", "definitions"), opts...)
	require.NoError(t, err)
	return r
}

func emptyHandler(ctx context.Context, req *routes.Request, body any) (any, error) {
	return map[string]any{}, nil
}

func TestNewSpecRouter_LoadsAllContracts(t *testing.T) {
	t.Parallel()

	r := definitionsRouter(t)
	table, err := r.Build()
	require.NoError(t, err)

	var got []string
	for _, rt := range table.Routes() {
		got = append(got, string(rt.Method)+" "+rt.Path)
	}
	assert.Equal(t, []string{
		"post " + companyPath,
		"get " + weatherPath,
		"post " + brewerPath,
	}, got)
}

func TestNewSpecRouter_SingleFile(t *testing.T) {
	t.Parallel()

	r, err := routes.NewSpecRouter(filepath.Join("testdata", "definitions", "company_basic_info.json"))
	require.NoError(t, err)
	table, err := r.Build()
	require.NoError(t, err)
	assert.Len(t, table.Routes(), 1)
}

func TestNewSpecRouter_ContractDerivedBaseline(t *testing.T) {
	t.Parallel()

	table, err := definitionsRouter(t).Build()
	require.NoError(t, err)

	rt, err := table.Route("post", companyPath)
	require.NoError(t, err)

	assert.Equal(t, "Company/BasicInfo Data Product", rt.Summary)
	assert.Equal(t, "Information about the company", rt.Description)
	assert.Equal(t, "Successful Response", rt.ResponseDescription)
	assert.False(t, rt.Deprecated)

	require.NotNil(t, rt.RequestModel)
	assert.Equal(t, "BasicCompanyInfoRequest", rt.RequestModel.Name)
	require.NotNil(t, rt.ResponseModel)
	assert.Equal(t, "BasicCompanyInfoResponse", rt.ResponseModel.Name)

	require.Contains(t, rt.Headers, "authorization")
	require.Contains(t, rt.Headers, "x-authorization-provider")
	require.Contains(t, rt.Headers, "x-consent-token")
	assert.True(t, rt.Headers["authorization"].Required)

	require.Contains(t, rt.Responses, 401)
	require.Contains(t, rt.Responses, 422)
	assert.Equal(t, "Unauthorized", rt.Responses[401].Model.Name)
}

func TestNewSpecRouter_DeprecatedAndAdditionalResponses(t *testing.T) {
	t.Parallel()

	table, err := definitionsRouter(t).Build()
	require.NoError(t, err)

	rt, err := table.Route("post", brewerPath)
	require.NoError(t, err)

	assert.True(t, rt.Deprecated)
	assert.Equal(t, []string{"Appliances"}, rt.Tags)

	require.Contains(t, rt.Responses, 418)
	assert.Equal(t, "I'm a teapot", rt.Responses[418].Description)
	require.NotNil(t, rt.Responses[418].Model)
	assert.Equal(t, "TeaPotError", rt.Responses[418].Model.Name)

	// 429 declares no schema: description survives, model stays nil.
	require.Contains(t, rt.Responses, 429)
	assert.Nil(t, rt.Responses[429].Model)
}

func TestNewSpecRouter_GetRouteWithoutBodyFallsBackToEmptyBody(t *testing.T) {
	t.Parallel()

	table, err := definitionsRouter(t).Build()
	require.NoError(t, err)

	rt, err := table.Route("get", weatherPath)
	require.NoError(t, err)
	assert.Same(t, models.EmptyBody, rt.RequestModel)
	assert.Equal(t, "StationStatus", rt.ResponseModel.Name)
}

func TestNewSpecRouter_DanglingReferenceFailsConstruction(t *testing.T) {
	t.Parallel()

	_, err := routes.NewSpecRouter(filepath.Join("testdata", "bad"))
	require.Error(t, err)

	var berr *routes.BuildError
	require.ErrorAs(t, err, &berr)
	assert.Contains(t, berr.File, "dangling_ref.json")
	var gerr *models.GenerationError
	assert.ErrorAs(t, err, &gerr)
}

func TestNewSpecRouter_ExtraValidatorFailuresAbortLoad(t *testing.T) {
	t.Parallel()

	// The brewer contract declares no auth headers and the weather contract
	// declares GET only, so the standards chain must fail the load.
	_, err := routes.NewSpecRouter(
		filepath.Join("testdata", "definitions"),
		routes.WithValidatorNames("standards"),
	)
	require.Error(t, err)
	var verr *validator.Error
	require.ErrorAs(t, err, &verr)
}

func TestNewSpecRouter_UnknownValidatorName(t *testing.T) {
	t.Parallel()

	_, err := routes.NewSpecRouter(
		filepath.Join("testdata", "definitions"),
		routes.WithValidatorNames("does-not-exist"),
	)
	require.ErrorIs(t, err, validator.ErrUnknownValidator)
}

func TestNewSpecRouter_IncludeGlobs(t *testing.T) {
	t.Parallel()

	r, err := routes.NewSpecRouter(
		filepath.Join("testdata", "definitions"),
		routes.WithIncludeGlobs("**/company_*.json"),
	)
	require.NoError(t, err)
	table, err := r.Build()
	require.NoError(t, err)
	require.Len(t, table.Routes(), 1)
	assert.Equal(t, companyPath, table.Routes()[0].Path)
}

func TestRegister_UnknownPathFailsImmediately(t *testing.T) {
	t.Parallel()

	r := definitionsRouter(t)
	err := r.Post("/Non/Existing/Stuff", emptyHandler)
	require.ErrorIs(t, err, routes.ErrRouteNotFound)

	// The company path is POST-only, so a GET registration fails too.
	err = r.Get(companyPath, emptyHandler)
	require.ErrorIs(t, err, routes.ErrRouteNotFound)
}

func TestBuild_OverridePrecedence(t *testing.T) {
	t.Parallel()

	r := definitionsRouter(t)
	r.DefaultPost(emptyHandler,
		routes.WithName("default-name"),
		routes.WithTags("default"),
		routes.WithResponseDescription("Default response"),
	)
	require.NoError(t, r.Post(companyPath, emptyHandler,
		routes.WithName("company-info"),
		routes.WithDescription("Custom description"),
	))

	table, err := r.Build()
	require.NoError(t, err)

	rt, err := table.Route("post", companyPath)
	require.NoError(t, err)

	// Non-nil fields from the path-specific registration win.
	assert.Equal(t, "company-info", rt.Name)
	assert.Equal(t, "Custom description", rt.Description)
	// Nil fields fill from the default registration.
	assert.Equal(t, []string{"default"}, rt.Tags)
	assert.Equal(t, "Default response", rt.ResponseDescription)
	// Fields neither tier set keep the contract-derived value.
	assert.Equal(t, "Company/BasicInfo Data Product", rt.Summary)
}

func TestBuild_DefaultHandlerAppliesToUncustomizedRoutes(t *testing.T) {
	t.Parallel()

	called := 0
	r := definitionsRouter(t)
	r.DefaultPost(func(ctx context.Context, req *routes.Request, body any) (any, error) {
		called++
		return map[string]any{"name": "Company"}, nil
	})

	table, err := r.Build()
	require.NoError(t, err)
	rt, err := table.Route("post", companyPath)
	require.NoError(t, err)

	_, err = rt.Serve(context.Background(), &routes.Request{
		Path:   companyPath,
		Method: contract.POST,
		Body:   []byte(`{"companyId": "test"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, called)
}

func TestBuild_NameFactoryPrecedesLiteralName(t *testing.T) {
	t.Parallel()

	r := definitionsRouter(t)
	require.NoError(t, r.Post(companyPath, emptyHandler,
		routes.WithName("literal"),
		routes.WithNameFactory(func(path string, op *contract.Operation) string {
			return "derived:" + path + ":" + op.Summary
		}),
	))

	table, err := r.Build()
	require.NoError(t, err)
	rt, err := table.Route("post", companyPath)
	require.NoError(t, err)
	assert.Equal(t, "derived:"+companyPath+":Company/BasicInfo Data Product", rt.Name)
}

func TestBuild_NameFactoryInheritedFromDefault(t *testing.T) {
	t.Parallel()

	r := definitionsRouter(t)
	r.DefaultPost(emptyHandler, routes.WithNameFactory(func(path string, op *contract.Operation) string {
		return "default:" + path
	}))
	require.NoError(t, r.Post(companyPath, emptyHandler, routes.WithName("literal")))

	table, err := r.Build()
	require.NoError(t, err)
	rt, err := table.Route("post", companyPath)
	require.NoError(t, err)
	assert.Equal(t, "default:"+companyPath, rt.Name)
}

func TestBuild_StrictModelsPropagate(t *testing.T) {
	t.Parallel()

	r := definitionsRouter(t, routes.WithModelOptions(models.WithStrictValidation()))
	table, err := r.Build()
	require.NoError(t, err)
	rt, err := table.Route("post", companyPath)
	require.NoError(t, err)

	err = rt.RequestModel.Validate(map[string]any{"companyId": "test", "extra": 1})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Detail, 1)
	assert.Equal(t, models.KindExtraForbidden, verr.Detail[0].Kind)
}

func TestNewSpecRouter_NoPartialRouterOnFailure(t *testing.T) {
	t.Parallel()

	// A failing chain must not leave a partially built router behind.
	r, err := routes.NewSpecRouter(
		filepath.Join("testdata", "definitions", "weather_status.json"),
		routes.WithValidatorNames("standards"),
	)
	require.Error(t, err)
	assert.Nil(t, r)
}

func TestBuildError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &routes.BuildError{File: "x.json", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "x.json")
}
