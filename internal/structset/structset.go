// Package structset implements helper functions that involves structs
package structset

import (
	"reflect"
	"strings"
)

// Get tag value of field. If tag value is "-", empty string will be returned
// If tag is empty, return name of field
func getTagValue(field reflect.StructField, tag string) string {
	if field.Tag.Get(tag) == "-" {
		return ""
	} else if field.Tag.Get(tag) == "" {
		return field.Name
	}

	return strings.Split(field.Tag.Get(tag), ",")[0]
}

// GetStructFieldNames returns all fields in a given struct
func GetStructFieldNames(Struct interface{}) []string {
	var fields []string

	v := reflect.ValueOf(Struct)
	typeOfS := v.Type()

	for i := 0; i < v.NumField(); i++ {
		fields = append(fields, typeOfS.Field(i).Name)
	}

	return fields
}

// GetStructFieldTagValues returns all tag names in a given struct for a given tag
func GetStructFieldTagValues(Struct interface{}, tag string) []string {
	v := reflect.ValueOf(Struct)
	typeOfS := v.Type()

	var values []string

	for i := 0; i < v.NumField(); i++ {
		if value := getTagValue(typeOfS.Field(i), tag); value != "" {
			values = append(values, value)
		}
	}

	return values
}

// GetStructFieldTagMap returns a map of tag values of keyTag to valueTag in a
// given struct. If keyTag is empty, field names are used as map keys.
func GetStructFieldTagMap(Struct interface{}, keyTag string, valueTag string) map[string]string {
	v := reflect.ValueOf(Struct)
	typeOfS := v.Type()

	tagMap := make(map[string]string, v.NumField())

	for i := 0; i < v.NumField(); i++ {
		field := typeOfS.Field(i)

		key := field.Name
		if keyTag != "" {
			key = getTagValue(field, keyTag)
		}

		if key == "" {
			continue
		}

		if value := getTagValue(field, valueTag); value != "" {
			tagMap[key] = value
		}
	}

	return tagMap
}
