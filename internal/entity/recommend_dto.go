package entity

import (
	"encoding/json"
	"strconv"
)

// FlexString accepts both JSON strings and numbers
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*f = ""
	case string:
		*f = FlexString(v)
	case float64:
		*f = FlexString(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return ErrInvalidFormat
	}

	return nil
}

type RecommendRequest struct {
	ZipCode        string     `json:"zipCode"`
	IncomeRange    string     `json:"incomeRange"`
	EducationLevel string     `json:"educationLevel"`
	NumKids        FlexString `json:"numKids,omitempty"`
}

type RecommendResponse struct {
	Resources []Resource `json:"resources"`
}

type RecommendErrorResponse struct {
	Error string `json:"error"`
}
