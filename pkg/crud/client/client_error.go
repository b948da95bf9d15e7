package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

var ErrCrudAPI = errors.New("crud api")

// ErrorResponse is the JSON a crud server answers errors with. Validation
// failures list the messages of each field in Errors.
type ErrorResponse struct {
	StatusCode int                 `json:"-"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("%s (HTTP Status: %d)- %s", ErrCrudAPI, e.StatusCode, e.Message)
}

func (e *ErrorResponse) Is(target error) bool {
	return target == ErrCrudAPI
}

// ToErrorFromResponse turns a failed response into an *ErrorResponse. Plain
// text bodies become the message.
func ToErrorFromResponse(resp *resty.Response) error {
	errorResponse := &ErrorResponse{StatusCode: resp.StatusCode()}
	body := resp.Body()

	if err := json.Unmarshal(body, errorResponse); err != nil || errorResponse.Message == "" {
		errorResponse.Message = strings.TrimSpace(string(body))
	}

	if errorResponse.Message == "" {
		errorResponse.Message = resp.Status()
	}

	return errorResponse
}
