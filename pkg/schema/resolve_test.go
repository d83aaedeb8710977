package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := New("v1", []OptionSpec{
		{Name: "reservation", Type: TypeString, Default: "off"},
		{Name: "cpu-range", Type: TypeString, Default: ""},
		{Name: "hugepages", Type: TypeString, Default: ""},
		{Name: "enable-pti", Type: TypeBoolean, Default: true},
		{Name: "update-grub", Type: TypeBoolean, Default: false},
	})
	require.NoError(t, err)
	return s
}

func TestResolveDefaultFill(t *testing.T) {
	s := testSchema(t)

	res, err := Resolve(s, Overrides{})
	require.NoError(t, err)

	// Output key set equals the schema key set even with no overrides.
	assert.Len(t, res.Values, s.Len())
	assert.Equal(t, map[string]any{
		"reservation": "off",
		"cpu-range":   "",
		"hugepages":   "",
		"enable-pti":  true,
		"update-grub": false,
	}, res.Values)
	assert.Equal(t, "v1", res.SchemaVersion)
}

func TestResolveNilOverrides(t *testing.T) {
	s := testSchema(t)

	res, err := Resolve(s, nil)
	require.NoError(t, err)
	assert.Len(t, res.Values, s.Len())
}

func TestResolvePartialOverrides(t *testing.T) {
	s := testSchema(t)

	res, err := Resolve(s, Overrides{"reservation": "isolcpus"})
	require.NoError(t, err)

	assert.Equal(t, "isolcpus", res.Values["reservation"])
	assert.Equal(t, "", res.Values["cpu-range"], "unset option keeps its default")
	assert.Equal(t, true, res.Values["enable-pti"])
	assert.Len(t, res.Values, s.Len())
}

func TestResolveBooleanCoercion(t *testing.T) {
	s := testSchema(t)

	tests := []struct {
		name string
		raw  any
		want bool
	}{
		{name: "native true", raw: true, want: true},
		{name: "native false", raw: false, want: false},
		{name: "textual true", raw: "true", want: true},
		{name: "textual false", raw: "false", want: false},
		{name: "mixed case", raw: "True", want: true},
		{name: "padded", raw: " false ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(s, Overrides{"enable-pti": tt.raw})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Values["enable-pti"])
		})
	}
}

func TestResolveUnknownOption(t *testing.T) {
	s := testSchema(t)

	res, err := Resolve(s, Overrides{"bogus-option": "x"})
	require.Error(t, err)
	assert.Nil(t, res, "no partial resolution on error")

	var unknown *UnknownOptionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "bogus-option", unknown.Option)
	assert.Equal(t, "v1", unknown.SchemaVersion)
}

func TestResolveTypeCoercionErrors(t *testing.T) {
	s := testSchema(t)

	tests := []struct {
		name   string
		option string
		raw    any
	}{
		{name: "non-boolean text for boolean", option: "enable-pti", raw: "yes"},
		{name: "number for boolean", option: "enable-pti", raw: 1},
		{name: "empty string for boolean", option: "enable-pti", raw: ""},
		{name: "bool for string", option: "cpu-range", raw: true},
		{name: "number for string", option: "hugepages", raw: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(s, Overrides{tt.option: tt.raw})
			require.Error(t, err)
			assert.Nil(t, res)

			var coercion *TypeCoercionError
			require.ErrorAs(t, err, &coercion)
			assert.Equal(t, tt.option, coercion.Option)
		})
	}
}

func TestResolveEmptyStringIsValidValue(t *testing.T) {
	s := testSchema(t)

	res, err := Resolve(s, Overrides{"reservation": ""})
	require.NoError(t, err)
	assert.Equal(t, "", res.Values["reservation"],
		"empty string override is a value, not absence")
}

func TestResolveIdempotence(t *testing.T) {
	s := testSchema(t)

	first, err := Resolve(s, Overrides{
		"reservation": "isolcpus",
		"cpu-range":   "0-3",
		"enable-pti":  "false",
	})
	require.NoError(t, err)

	second, err := Resolve(s, first.Overrides())
	require.NoError(t, err)

	assert.Equal(t, first.Values, second.Values)
}

func TestResolveSpecExample(t *testing.T) {
	// schema declares reservation: string default "off", cpu-range: string
	// default "". Overriding only reservation leaves cpu-range empty, which
	// the consistency pass must then flag.
	s := testSchema(t)

	res, err := Resolve(s, Overrides{"reservation": "isolcpus"})
	require.NoError(t, err)
	assert.Equal(t, "isolcpus", res.Values["reservation"])
	assert.Equal(t, "", res.Values["cpu-range"])

	findings := CheckConsistency(res)
	require.Len(t, findings, 1)
	assert.Equal(t, OptReservation, findings[0].Option)
}

func TestResolveDoesNotMutateInputs(t *testing.T) {
	s := testSchema(t)
	overrides := Overrides{"reservation": "affinity"}

	_, err := Resolve(s, overrides)
	require.NoError(t, err)

	assert.Len(t, overrides, 1)
	assert.Equal(t, "affinity", overrides["reservation"])
}
