package validation

import (
	"fmt"
	"net"
	"regexp"
	"strings"

	"asset-inventory-api/internal/model"
)

// Employee validation constants
const (
	MaxEmployeeCodeLength = 6
	MaxSerialLength       = 100
)

var employeeCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// validStates is the closed set of asset condition states.
var validStates = map[string]struct{}{
	model.StateGood:    {},
	model.StateBad:     {},
	model.StateRetired: {},
}

// ValidateIP validates an IP address format (IPv4 or IPv6)
func ValidateIP(ip string) error {
	if net.ParseIP(ip) == nil {
		return fmt.Errorf("invalid IP address format: %s", ip)
	}
	return nil
}

// ValidateState validates an asset condition state against the closed enum
func ValidateState(state string) error {
	if _, ok := validStates[state]; !ok {
		return fmt.Errorf("invalid asset state: %s", state)
	}
	return nil
}

// ValidateEmployeeCode validates an employee code (payroll code or generated
// T-XXXX placeholder)
func ValidateEmployeeCode(code string) error {
	if code == "" {
		return nil // optional field
	}
	if len(code) > MaxEmployeeCodeLength {
		return fmt.Errorf("employee code must be at most %d characters long", MaxEmployeeCodeLength)
	}
	if !employeeCodeRegex.MatchString(code) {
		return fmt.Errorf("employee code can only contain alphanumeric characters and dashes")
	}
	return nil
}

// ValidateRequired checks if a string field is not empty
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// AssetInput is the subset of asset fields validated before persistence.
type AssetInput struct {
	Serial        string
	IP            string
	TypeID        int64
	BrandID       int64
	State         string
	CustodianCode string
}

// ValidateAssetInput validates the required fields for creating or updating
// an asset and returns every problem found.
func ValidateAssetInput(in AssetInput) []string {
	var errors []string

	if err := ValidateRequired("serial", in.Serial); err != nil {
		errors = append(errors, err.Error())
	} else if len(in.Serial) > MaxSerialLength {
		errors = append(errors, fmt.Sprintf("serial cannot exceed %d characters", MaxSerialLength))
	}

	if in.TypeID <= 0 {
		errors = append(errors, "type_id is required")
	}
	if in.BrandID <= 0 {
		errors = append(errors, "brand_id is required")
	}

	if err := ValidateState(in.State); err != nil {
		errors = append(errors, err.Error())
	}

	// IP is optional; the intake pipeline leaves it empty on low-confidence
	// extractions.
	if in.IP != "" {
		if err := ValidateIP(in.IP); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if err := ValidateEmployeeCode(in.CustodianCode); err != nil {
		errors = append(errors, err.Error())
	}

	return errors
}
