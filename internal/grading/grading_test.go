package grading

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kisaansetu/mandi-api/internal/types"
	"github.com/stretchr/testify/require"
)

func TestMockGrader(t *testing.T) {
	grader := NewMockGrader()

	listing := &types.Listing{CropName: "Wheat", Category: "Cereals"}
	for i := 0; i < 100; i++ {
		grade, score, err := grader.Grade(listing)
		require.NoError(t, err)
		require.Contains(t, []string{"A", "B", "C"}, grade)
		require.GreaterOrEqual(t, score, 60)
		require.Less(t, score, 100)
	}
}

func TestRemoteGrader(t *testing.T) {
	t.Run("successful_grade", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/grade", r.URL.Path)

			var req gradeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "Turmeric", req.CropName)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(gradeAnswer{Grade: "B", Score: 74})
		}))
		defer srv.Close()

		grader := NewRemoteGrader(srv.URL)
		grade, score, err := grader.Grade(&types.Listing{CropName: "Turmeric", Category: "Spices", Quantity: 5, Unit: "Qt"})
		require.NoError(t, err)
		require.Equal(t, "B", grade)
		require.Equal(t, 74, score)
	})

	t.Run("service_error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		grader := NewRemoteGrader(srv.URL)
		_, _, err := grader.Grade(&types.Listing{CropName: "Wheat"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "503")
	})
}
