// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package patch_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-blog/pkg/patch"
	"github.com/taibuivan/yomira-blog/pkg/pointer"
)

type body struct {
	Title   patch.Field[string] `json:"title,omitzero"`
	Excerpt patch.Field[string] `json:"excerpt,omitzero"`
}

/*
TestField_Unmarshal distinguishes absent, null and value.
*/
func TestField_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    patch.State
		value   string
	}{
		{"absent", `{"title":"x"}`, patch.Unset, ""},
		{"null", `{"excerpt":null}`, patch.Clear, ""},
		{"value", `{"excerpt":"short"}`, patch.Assigned, "short"},
		{"empty_string", `{"excerpt":""}`, patch.Assigned, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b body
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &b))
			assert.Equal(t, tt.want, b.Excerpt.State())
			assert.Equal(t, tt.value, b.Excerpt.Value())
		})
	}
}

/*
TestField_UnmarshalTypeMismatch rejects a value of the wrong JSON type.
*/
func TestField_UnmarshalTypeMismatch(t *testing.T) {
	var b body
	assert.Error(t, json.Unmarshal([]byte(`{"excerpt":42}`), &b))
}

/*
TestField_Marshal omits Unset fields and writes null for Clear.
*/
func TestField_Marshal(t *testing.T) {
	raw, err := json.Marshal(body{Excerpt: patch.Null[string]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"excerpt":null}`, string(raw))

	raw, err = json.Marshal(body{Title: patch.Set("Hello")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Hello"}`, string(raw))

	raw, err = json.Marshal(body{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

/*
TestField_Apply resolves each state against a current nullable value.
*/
func TestField_Apply(t *testing.T) {
	current := pointer.To("old")

	var unset patch.Field[string]
	assert.Equal(t, current, unset.Apply(current))
	assert.Nil(t, patch.Null[string]().Apply(current))

	replaced := patch.Set("new").Apply(current)
	require.NotNil(t, replaced)
	assert.Equal(t, "new", *replaced)
	assert.Equal(t, "old", *current)
}
