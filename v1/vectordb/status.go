package vectordb

import (
	"encoding/json"
	"fmt"
)

// StatusCode is the outcome class of a mutating or probing operation.
type StatusCode int

const (
	StatusCodeOk StatusCode = iota
	StatusCodeFailure
	StatusCodeNotFound
	StatusCodeError
)

// Status reports the outcome of an operation that completed at the transport
// level. Err is only set for StatusCodeError.
type Status struct {
	Code StatusCode
	Err  error
}

func StatusOk() Status       { return Status{Code: StatusCodeOk} }
func StatusFailure() Status  { return Status{Code: StatusCodeFailure} }
func StatusNotFound() Status { return Status{Code: StatusCodeNotFound} }

// StatusError carries err as an outcome instead of a returned error.
func StatusError(err error) Status {
	return Status{Code: StatusCodeError, Err: err}
}

// StatusFromBool maps true to Ok and false to Failure.
func StatusFromBool(ok bool) Status {
	if ok {
		return StatusOk()
	}
	return StatusFailure()
}

func (c StatusCode) String() string {
	switch c {
	case StatusCodeOk:
		return "Ok"
	case StatusCodeFailure:
		return "Failure"
	case StatusCodeNotFound:
		return "NotFound"
	default:
		return "Error"
	}
}

func (s Status) IsOk() bool { return s.Code == StatusCodeOk }

func (s Status) String() string {
	if s.Code != StatusCodeError || s.Err == nil {
		return s.Code.String()
	}
	return fmt.Sprintf("Error(%s)", s.Err)
}

// MarshalJSON encodes unit outcomes as strings and errors as {"Error": msg}.
func (s Status) MarshalJSON() ([]byte, error) {
	if s.Code != StatusCodeError {
		return json.Marshal(s.Code.String())
	}
	msg := ""
	if s.Err != nil {
		msg = s.Err.Error()
	}
	return json.Marshal(map[string]string{"Error": msg})
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch name {
		case "Ok":
			*s = StatusOk()
		case "Failure":
			*s = StatusFailure()
		case "NotFound":
			*s = StatusNotFound()
		default:
			return fmt.Errorf("vectordb: unknown status %q", name)
		}
		return nil
	}
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("vectordb: invalid status: %w", err)
	}
	msg, ok := obj["Error"]
	if !ok {
		return fmt.Errorf("vectordb: invalid status object")
	}
	*s = StatusError(NewOtherError("%s", msg))
	return nil
}
