package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tagsight/pkg/routes"
)

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/items",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}},
			{Method: "POST", Pattern: "/archive", Handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			}},
		},
		Children: []routes.Group{{
			Prefix: "/nested",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/deep", Handler: func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNoContent)
				}},
			},
		}},
	})

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/items", http.StatusOK},
		{"POST", "/items/archive", http.StatusAccepted},
		{"GET", "/items/nested/deep", http.StatusNoContent},
		{"DELETE", "/items", http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			mux.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
