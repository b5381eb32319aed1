package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Idea string `validate:"required,notblank"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Idea: "collar"}))

	err := ValidateRequest(sampleRequest{Idea: "   "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "notblank", verr.Fields["sampleRequest.Idea"])
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "http error", err: NewHTTPError(fiber.StatusBadGateway, "upstream failed", errors.New("x")), wantCode: fiber.StatusBadGateway},
		{name: "validation", err: &ValidationError{Fields: map[string]string{"Idea": "required"}}, wantCode: fiber.StatusBadRequest},
		{name: "fiber error", err: fiber.ErrUnprocessableEntity, wantCode: fiber.StatusUnprocessableEntity},
		{name: "unknown", err: errors.New("boom"), wantCode: fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var out BaseResponse[any]
			require.NoError(t, json.Unmarshal(body, &out))
			assert.False(t, out.Success)
			assert.Equal(t, tt.wantCode, out.Code)
		})
	}
}
