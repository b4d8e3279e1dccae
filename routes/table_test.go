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
)

func companyTable(t *testing.T, handler routes.Handler, opts ...routes.RouteOption) *routes.Table {
	t.Helper()
	r, err := routes.NewSpecRouter(filepath.Join("testdata", "definitions", "company_basic_info.json"))
	require.NoError(t, err)
	require.NoError(t, r.Post(companyPath, handler, opts...))
	table, err := r.Build()
	require.NoError(t, err)
	return table
}

func TestTable_UnknownMethodLookup(t *testing.T) {
	t.Parallel()

	table, err := definitionsRouter(t).Build()
	require.NoError(t, err)

	_, err = table.Route("put", companyPath)
	require.ErrorIs(t, err, routes.ErrUnsupportedMethod)

	_, err = table.Route("get", "/Non/Existing/Stuff")
	require.ErrorIs(t, err, routes.ErrRouteNotFound)

	// Method names match case-insensitively, like the transport sends them.
	_, err = table.Route("POST", companyPath)
	require.NoError(t, err)
}

func TestServe_HandlerReceivesValidatedBody(t *testing.T) {
	t.Parallel()

	table := companyTable(t, func(ctx context.Context, req *routes.Request, body any) (any, error) {
		m, ok := body.(map[string]any)
		require.True(t, ok, "body %T", body)
		return map[string]any{"echo": m["companyId"]}, nil
	})
	rt, err := table.Route("post", companyPath)
	require.NoError(t, err)

	out, err := rt.Serve(context.Background(), &routes.Request{
		Path:   companyPath,
		Method: contract.POST,
		Body:   []byte(`{"companyId": "2464491-9"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"echo": "2464491-9"}, out)
}

func TestServe_InvalidBodySurfacesFieldErrors(t *testing.T) {
	t.Parallel()

	table := companyTable(t, emptyHandler)
	rt, err := table.Route("post", companyPath)
	require.NoError(t, err)

	_, err = rt.Serve(context.Background(), &routes.Request{
		Path:   companyPath,
		Method: contract.POST,
		Body:   []byte(`{}`),
	})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Detail, 1)
	assert.Equal(t, models.KindMissing, verr.Detail[0].Kind)
	assert.Equal(t, []any{"body", "companyId"}, verr.Detail[0].Loc)
}

func TestServe_EmptyBodyDecodesAsEmptyObject(t *testing.T) {
	t.Parallel()

	table, err := definitionsRouter(t).Build()
	require.NoError(t, err)
	rt, err := table.Route("get", weatherPath)
	require.NoError(t, err)

	out, err := rt.Serve(context.Background(), &routes.Request{Path: weatherPath, Method: contract.GET})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out)
}

func TestServe_DependenciesRunBeforeHandler(t *testing.T) {
	t.Parallel()

	errTeapot := errors.New("wrong brew")
	gate := func(ctx context.Context, req *routes.Request) error {
		if req.Header("X-Brew") != "tea" {
			return errTeapot
		}
		return nil
	}
	handled := 0
	table := companyTable(t, func(ctx context.Context, req *routes.Request, body any) (any, error) {
		handled++
		return map[string]any{}, nil
	}, routes.WithDependencies(gate))

	rt, err := table.Route("post", companyPath)
	require.NoError(t, err)

	req := &routes.Request{
		Path:    companyPath,
		Method:  contract.POST,
		Headers: map[string]string{"x-brew": "coffee"},
		Body:    []byte(`{"companyId": "test"}`),
	}
	_, err = rt.Serve(context.Background(), req)
	require.ErrorIs(t, err, errTeapot)
	assert.Zero(t, handled)

	req.Headers["x-brew"] = "tea"
	_, err = rt.Serve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, handled)
}

func TestValidateResponse(t *testing.T) {
	t.Parallel()

	table := companyTable(t, emptyHandler)
	rt, err := table.Route("post", companyPath)
	require.NoError(t, err)

	ok := map[string]any{
		"name":             "Company",
		"companyId":        "test",
		"companyForm":      "Form",
		"registrationDate": "Long ago",
	}
	require.NoError(t, rt.ValidateResponse(ok))

	var verr *models.ValidationError
	err = rt.ValidateResponse(map[string]any{"name": "Company"})
	require.ErrorAs(t, err, &verr)
}

func TestRequest_HeaderLookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	req := &routes.Request{Headers: map[string]string{"authorization": "Bearer x"}}
	assert.Equal(t, "Bearer x", req.Header("Authorization"))
	assert.Equal(t, "", req.Header("X-Missing"))
}
