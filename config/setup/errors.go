package setup

import (
	"encoding/json"
	"errors"
	"io"
	"merquelo/database"
	"merquelo/middleware"
	"merquelo/validator"
)

// Exit codes returned by HandleError
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitBadInput = 2
)

type errorBody struct {
	Error  string                     `json:"error"`
	Fields validator.ValidationErrors `json:"fields,omitempty"`
}

// HandleError writes err as a JSON document to w and maps it to an exit
// code. A nil error writes nothing.
func HandleError(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}

	body := errorBody{Error: err.Error()}
	code := ExitFailure

	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		body.Error = "invalid input"
		body.Fields = verrs
		code = ExitBadInput
	case errors.Is(err, database.ErrNotFound):
		body.Error = "not found: " + err.Error()
	case middleware.IsClientError(err):
		code = ExitBadInput
	}

	_ = json.NewEncoder(w).Encode(body)
	return code
}
