package config

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

// Pricing holds the flat amounts the storefront charges. They are fixed by
// configuration and never taken from user input.
type Pricing struct {
	SingleWorkflow decimal.Decimal
	AllAccess      decimal.Decimal
	Currency       string
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// StringToDecimalHookFunc converts strings and numbers into decimal.Decimal.
func StringToDecimalHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != decimalType {
			return data, nil
		}

		switch value := data.(type) {
		case string:
			d, err := decimal.NewFromString(value)
			if err != nil {
				return nil, fmt.Errorf("parse amount %q: %w", value, err)
			}
			return d, nil
		case int:
			return decimal.NewFromInt(int64(value)), nil
		case int64:
			return decimal.NewFromInt(value), nil
		case float64:
			return decimal.NewFromFloat(value), nil
		default:
			return data, nil
		}
	}
}
