package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUIErrorContext_Add(t *testing.T) {
	testCases := []struct {
		inputUIErrorContext *UIErrorContext
		inputPrefix         string
		inputVal            string
		expectedOutput      []string
		name                string
	}{
		{
			inputUIErrorContext: NewUIErrorContext(),
			inputPrefix:         UIContextPrefixSettingsFile,
			inputVal:            "settings-blue.yml",
			expectedOutput:      []string{"Settings File: settings-blue.yml"},
			name:                "empty input context",
		},
		{
			inputUIErrorContext: &UIErrorContext{
				contexts: []string{"Base Path: /etc/app/settings/"},
			},
			inputPrefix:    UIContextPrefixSettingsFile,
			inputVal:       "settings-blue.yml",
			expectedOutput: []string{"Base Path: /etc/app/settings/", "Settings File: settings-blue.yml"},
			name:           "non-empty input context",
		},
		{
			inputUIErrorContext: &UIErrorContext{
				contexts: []string{"Settings File: old.yml"},
			},
			inputPrefix:    UIContextPrefixSettingsFile,
			inputVal:       "new.yml",
			expectedOutput: []string{"Settings File: new.yml"},
			name:           "existing prefix is replaced",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.inputUIErrorContext.Add(tc.inputPrefix, tc.inputVal)
			assert.ElementsMatch(t, tc.expectedOutput, tc.inputUIErrorContext.GetAll(), tc.name)
		})
	}
}

func TestUIErrorContext_Append(t *testing.T) {
	testCases := []struct {
		inputUIErrorContext *UIErrorContext
		inputAppendContext  *UIErrorContext
		expectedOutput      []string
		name                string
	}{
		{
			inputUIErrorContext: NewUIErrorContext(),
			inputAppendContext: &UIErrorContext{
				contexts: []string{"Base Path: /etc/app/settings/"},
			},
			expectedOutput: []string{"Base Path: /etc/app/settings/"},
			name:           "empty input context",
		},
		{
			inputUIErrorContext: &UIErrorContext{
				contexts: []string{"Namespaces: blue,green"},
			},
			inputAppendContext: &UIErrorContext{
				contexts: []string{"Base Path: /etc/app/settings/"},
			},
			expectedOutput: []string{
				"Base Path: /etc/app/settings/",
				"Namespaces: blue,green",
			},
			name: "non-empty input context",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.inputUIErrorContext.Append(tc.inputAppendContext)
			assert.ElementsMatch(t, tc.expectedOutput, tc.inputUIErrorContext.GetAll(), tc.name)
		})
	}
}

func TestUIErrorContext_Copy(t *testing.T) {
	original := &UIErrorContext{contexts: []string{"Base Path: /etc/app/settings/"}}
	copied := original.Copy()
	assert.Equal(t, original, copied)

	// Mutating the copy must not leak into the original.
	copied.Add(UIContextPrefixSettingsFile, "a.yml")
	assert.Len(t, original.GetAll(), 1)
	assert.Len(t, copied.GetAll(), 2)
}

func TestUIErrorContext_String(t *testing.T) {
	ctx := NewUIErrorContext()
	ctx.Add(UIContextPrefixBasePath, "/etc/app/settings/")
	ctx.Add(UIContextPrefixSettingKey, "db.password")
	assert.Equal(t, "Base Path: /etc/app/settings/\nSetting Key: db.password", ctx.String())
}
