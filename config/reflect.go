package config

import (
	"flag"
	"log"
	"reflect"
	"strconv"
)

func setupFlags(value reflect.Value) {
	reflectConfiguration(
		value,
		func(flagName, defaultValue string) bool {
			return flagName != ""
		},
		func(fieldValue reflect.Value, flagName, flagValue string) {
			usage := usageStrings[flagName]
			switch fieldValue.Kind() {
			case reflect.Bool:
				boolValue, err := strconv.ParseBool(flagValue)
				if err != nil {
					log.Fatal(err)
				}
				flag.Bool(flagName, boolValue, usage)
			case reflect.Int64:
				intValue, err := strconv.ParseInt(flagValue, 10, 64)
				if err != nil {
					log.Fatal(err)
				}
				flag.Int64(flagName, intValue, usage)
			case reflect.Float64:
				floatValue, err := strconv.ParseFloat(flagValue, 64)
				if err != nil {
					log.Fatal(err)
				}
				flag.Float64(flagName, floatValue, usage)
			case reflect.String:
				flag.String(flagName, flagValue, usage)
			}
		},
	)
}

func setDefaults(value reflect.Value) {
	reflectConfiguration(
		value,
		func(flagName, defaultValue string) bool {
			return defaultValue != ""
		},
		func(fieldValue reflect.Value, flagName, defaultValue string) {
			switch fieldValue.Kind() {
			case reflect.Bool:
				flagBool, err := strconv.ParseBool(defaultValue)
				if err != nil {
					log.Fatal(err)
				}
				fieldValue.SetBool(flagBool)
			case reflect.Int64:
				flagInt, err := strconv.ParseInt(defaultValue, 10, 64)
				if err != nil {
					log.Fatal(err)
				}
				fieldValue.SetInt(flagInt)
			case reflect.Float64:
				flagFloat, err := strconv.ParseFloat(defaultValue, 64)
				if err != nil {
					log.Fatal(err)
				}
				fieldValue.SetFloat(flagFloat)
			case reflect.String:
				fieldValue.SetString(defaultValue)
			}
		},
	)
}

func setFromFlags(value reflect.Value) {
	setFlags := make(map[string]flag.Value)
	flag.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = f.Value
	})

	reflectConfiguration(
		value,
		func(flagName, flagValue string) bool {
			_, ok := setFlags[flagName]
			return ok
		},
		func(fieldValue reflect.Value, flagName, flagValue string) {
			setFlagValue, _ := setFlags[flagName]
			switch fieldValue.Kind() {
			case reflect.Bool:
				flagBool, err := strconv.ParseBool(setFlagValue.String())
				if err != nil {
					log.Fatal(err)
				}
				fieldValue.SetBool(flagBool)
			case reflect.Int64:
				flagInt, err := strconv.ParseInt(setFlagValue.String(), 10, 64)
				if err != nil {
					log.Fatal(err)
				}
				fieldValue.SetInt(flagInt)
			case reflect.Float64:
				flagFloat, err := strconv.ParseFloat(setFlagValue.String(), 64)
				if err != nil {
					log.Fatal(err)
				}
				fieldValue.SetFloat(flagFloat)
			case reflect.String:
				fieldValue.SetString(setFlagValue.String())
			}
		},
	)
}

func reflectConfiguration(
	value reflect.Value,
	shouldHandle func(flagName, flagValue string) bool,
	handle func(fieldValue reflect.Value, flagName, flagValue string),
) {
	if value.Kind() == reflect.Struct {
		t := reflect.TypeOf(value.Interface())
		n := t.NumField()
		for i := 0; i < n; i++ {
			field := t.Field(i)

			flagName := field.Tag.Get("flag")
			flagValue := field.Tag.Get("default")

			fieldValue := value.FieldByName(field.Name)

			if shouldHandle(flagName, flagValue) {
				handle(fieldValue, flagName, flagValue)
			} else if fieldValue.Kind() == reflect.Struct {
				reflectConfiguration(fieldValue, shouldHandle, handle)
			}
		}
	}
}
