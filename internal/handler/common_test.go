package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/triviaboard/backend/internal/service"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorMapsServiceKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", service.ErrNotFound("game not found"), http.StatusNotFound},
		{"forbidden", service.ErrForbidden("only the host"), http.StatusForbidden},
		{"conflict", service.ErrConflict("clue is already taken"), http.StatusConflict},
		{"invalid", service.ErrInvalid("blank title"), http.StatusBadRequest},
		{"unknown", errors.New("driver crashed"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondError(c, tc.err)

			if recorder.Code != tc.want {
				t.Errorf("status = %d, want %d", recorder.Code, tc.want)
			}
		})
	}
}
