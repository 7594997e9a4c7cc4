package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/handler"
)

func routedInput(t *testing.T, pattern string, req *http.Request) *handler.Input {
	t.Helper()

	var in *handler.Input
	r := chi.NewRouter()
	r.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		in = handler.NewInput(r, 0)
		// Force every source to load while the route context is live.
		in.Fields()
	})
	r.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, in)
	return in
}

func TestInput_Value(t *testing.T) {
	t.Parallel()

	req := postJSON("/items/7?limit=10&flag=TRUE&name=query", `{"name":"body","tags":"[1,2]","missing":null}`)
	in := routedInput(t, "/items/{id}", req)

	assert.Equal(t, "body", in.Value("name"), "body wins over query")
	assert.Equal(t, float64(10), in.Value("limit"))
	assert.Equal(t, true, in.Value("flag"))
	assert.Equal(t, float64(7), in.Value("id"))
	assert.Equal(t, []any{float64(1), float64(2)}, in.Value("tags"))
	assert.Nil(t, in.Value("missing"))
	assert.Nil(t, in.Value("nope"))
}

func TestInput_Only(t *testing.T) {
	t.Parallel()

	in := routedInput(t, "/", httptest.NewRequest(http.MethodGet, "/?a=123", nil))

	got := in.Only("a", "b")
	assert.Equal(t, map[string]any{"a": float64(123), "b": nil}, got)
	assert.Len(t, got, 2)
}

func TestInput_FieldsAndAll(t *testing.T) {
	t.Parallel()

	req := postJSON("/u/abc?page=2&name=q", `{"name":"x","when":"2024-01-01"}`)
	in := routedInput(t, "/u/{slug}", req)

	assert.Equal(t, []string{"name", "page", "slug", "when"}, in.Fields())
	assert.Equal(t, map[string]any{
		"name": "x",
		"page": float64(2),
		"slug": "abc",
		"when": "2024-01-01T00:00:00.000Z",
	}, in.All())
}

func TestInput_BodyErrorIsCached(t *testing.T) {
	t.Parallel()

	in := handler.NewInput(postJSON("/", `{bad`), 0)

	_, err1 := in.Body()
	_, err2 := in.Body()
	require.Error(t, err1)
	assert.Equal(t, err1, err2)
	assert.Nil(t, in.Value("anything"))
}
