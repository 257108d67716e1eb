package config

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/oaeproject/model-loader/internal/sampler"
)

var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		DecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)),
}

// DecodeHook understands the tuple forms of sampler.Magnitude and sampler.Categorical.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		MagnitudeDecodeHook(),
		CategoricalDecodeHook(),
	)
}

// Decode decodes input into result with DecodeHook applied.
func Decode(input interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       DecodeHook(),
		Result:           result,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// MagnitudeDecodeHook accepts the [mean, stdDev, min, max] tuple form for sampler.Magnitude.
func MagnitudeDecodeHook() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != reflect.TypeOf(sampler.Magnitude{}) || f.Kind() != reflect.Slice {
			return data, nil
		}
		values := reflect.ValueOf(data)
		if values.Len() != 4 {
			return nil, fmt.Errorf("magnitude must have 4 elements [mean, stdDev, min, max], got %d", values.Len())
		}
		ints := make([]int, 4)
		for i := range ints {
			n, err := toInt(values.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("magnitude element %d: %w", i, err)
			}
			ints[i] = n
		}
		return sampler.M(ints[0], ints[1], ints[2], ints[3]), nil
	}
}

// CategoricalDecodeHook accepts the [[weight, value], ...] tuple form for any sampler.Categorical.
// Each pair is turned into a {weight, value} map and left for mapstructure to decode into the
// concrete Weighted type.
func CategoricalDecodeHook() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() != reflect.Slice || !isCategorical(t) {
			return data, nil
		}
		values := reflect.ValueOf(data)
		pairs := make([]map[string]interface{}, 0, values.Len())
		for i := 0; i < values.Len(); i++ {
			item := reflect.ValueOf(values.Index(i).Interface())
			if item.Kind() != reflect.Slice {
				// Already in map form.
				return data, nil
			}
			if item.Len() != 2 {
				return nil, fmt.Errorf("categorical entry %d must be a [weight, value] pair, got %d elements", i, item.Len())
			}
			pairs = append(pairs, map[string]interface{}{
				"weight": item.Index(0).Interface(),
				"value":  item.Index(1).Interface(),
			})
		}
		return pairs, nil
	}
}

func isCategorical(t reflect.Type) bool {
	if t.Kind() != reflect.Slice || t.Elem().Kind() != reflect.Struct {
		return false
	}
	elem := t.Elem()
	if elem.NumField() != 2 {
		return false
	}
	weight, ok := elem.FieldByName("Weight")
	if !ok || weight.Type.Kind() != reflect.Float64 {
		return false
	}
	_, ok = elem.FieldByName("Value")
	return ok
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	case float32:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%v is not a number", v)
	}
}
