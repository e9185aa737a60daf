package api

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/zfogg/picfeed/pkg/client"
	clierrors "github.com/zfogg/picfeed/pkg/errors"
	"github.com/zfogg/picfeed/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = validator.New(validator.WithRequiredStructEnabled())

func newRequest(ctx context.Context) *resty.Request {
	return client.GetClient().R().SetContext(ctx)
}

// send executes req and decodes a 2xx body into result, which is then
// validated. Every failure comes back as a *clierrors.Error: transport
// problems are NETWORK_ERROR, non-2xx statuses are classified by status, and
// a body that does not decode or validate is UNKNOWN_ERROR.
func send(req *resty.Request, method, path string, result any) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		logger.Debug("Request failed", "method", method, "path", path, "error", err)
		return clierrors.Network(err)
	}

	if !resp.IsSuccess() {
		e := clierrors.FromResponse(resp.StatusCode(), resp.Body())
		logger.Debug("Request rejected", "method", method, "path", path, "status", resp.StatusCode(), "code", e.Code)
		return e
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return malformed(path, err)
	}
	if err := validate.Struct(result); err != nil {
		return malformed(path, err)
	}
	return nil
}

func malformed(path string, cause error) error {
	logger.Warn("Unexpected response shape", "path", path, "error", cause)
	e := clierrors.New(clierrors.KindUnknown, fmt.Errorf("decode %s: %w", path, cause))
	e.Message = "The server sent a response this client does not understand."
	return e
}
