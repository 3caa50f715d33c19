// Package env fills configuration structs from environment variables,
// optionally layered on top of a YAML file.
//
// Fields are bound with struct tags:
//
//	Token string        `yaml:"token" env:"APP_TOKEN,required"`
//	TTL   time.Duration `yaml:"ttl" env:"APP_TTL" env-default:"20m"`
//
// Precedence is environment, then the file, then env-default.
package env

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TagValue   = "env"
	TagDefault = "env-default"
)

var durationType = reflect.TypeOf(time.Duration(0))

// ReadFile decodes the YAML file at path into root and then applies Read.
// An empty path skips the file.
func ReadFile(path string, root interface{}) error {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, root); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	return Read(root)
}

func Read(root interface{}) error {
	rootValue := reflect.ValueOf(root)
	if rootValue.Kind() != reflect.Ptr || rootValue.IsNil() {
		return errors.New("env: expected a non-nil pointer to a struct")
	}

	rootValue = rootValue.Elem()
	if rootValue.Kind() != reflect.Struct {
		return fmt.Errorf("unexpected type %v", rootValue.Kind())
	}
	return readStruct(rootValue)
}

func readStruct(structValue reflect.Value) error {
	structType := structValue.Type()
	for i := 0; i < structValue.NumField(); i++ {
		fieldType := structType.Field(i)
		fieldValue := structValue.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		if fieldValue.Kind() == reflect.Struct && !isTextUnmarshaler(fieldValue) {
			if err := readStruct(fieldValue); err != nil {
				return err
			}
			continue
		}

		tagValue, hasTagValue := fieldType.Tag.Lookup(TagValue)
		if !hasTagValue {
			continue
		}

		name, options := parseTag(tagValue)
		env, found := os.LookupEnv(name)
		if !found {
			if !fieldValue.IsZero() {
				continue
			}
			if options.Contains("required") {
				return fmt.Errorf("environment variable %s is required but the value is not provided", name)
			}

			defValue, hasDefValue := fieldType.Tag.Lookup(TagDefault)
			if !hasDefValue {
				continue
			}
			env = defValue
		}

		if err := parseValue(fieldValue, env); err != nil {
			return fmt.Errorf("can't parse environment variable %s, err: %w", name, err)
		}
	}

	return nil
}

func isTextUnmarshaler(v reflect.Value) bool {
	_, ok := v.Addr().Interface().(encoding.TextUnmarshaler)
	return ok
}

func parseValue(fieldValue reflect.Value, env string) error {
	fieldType := fieldValue.Type()

	if fieldValue.CanAddr() {
		if u, ok := fieldValue.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(env))
		}
	}

	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(env)

	case reflect.Bool:
		b, err := strconv.ParseBool(env)
		if err != nil {
			return err
		}
		fieldValue.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if fieldType == durationType {
			d, err := time.ParseDuration(env)
			if err != nil {
				return err
			}
			fieldValue.SetInt(int64(d))
			return nil
		}

		number, err := strconv.ParseInt(env, 0, fieldType.Bits())
		if err != nil {
			return err
		}
		fieldValue.SetInt(number)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		number, err := strconv.ParseUint(env, 0, fieldType.Bits())
		if err != nil {
			return err
		}
		fieldValue.SetUint(number)

	case reflect.Float32, reflect.Float64:
		number, err := strconv.ParseFloat(env, fieldType.Bits())
		if err != nil {
			return err
		}
		fieldValue.SetFloat(number)

	case reflect.Slice:
		items := strings.Split(env, ",")
		slice := reflect.MakeSlice(fieldType, len(items), len(items))
		for i, item := range items {
			if err := parseValue(slice.Index(i), strings.TrimSpace(item)); err != nil {
				return err
			}
		}
		fieldValue.Set(slice)

	case reflect.Ptr:
		if fieldValue.IsNil() {
			fieldValue.Set(reflect.New(fieldType.Elem()))
		}
		return parseValue(fieldValue.Elem(), env)

	default:
		return fmt.Errorf("unsupported type %s", fieldValue.Kind())
	}

	return nil
}

type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	tag, opt, _ := strings.Cut(tag, ",")
	return tag, tagOptions(opt)
}

func (o tagOptions) Contains(optionName string) bool {
	s := string(o)
	for s != "" {
		var name string
		name, s, _ = strings.Cut(s, ",")
		if name == optionName {
			return true
		}
	}
	return false
}
