package powerdns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteContent(t *testing.T) {
	tests := []struct {
		name    string
		rrType  string
		content string
		want    string
	}{
		{name: "plain txt", rrType: "TXT", content: "hello world", want: `"hello world"`},
		{name: "already quoted", rrType: "TXT", content: `"hello"`, want: `"hello"`},
		{name: "quoted sequence", rrType: "TXT", content: `"a" "b"`, want: `"a" "b"`},
		{name: "embedded quote", rrType: "SPF", content: `v=spf1 "x"`, want: `"v=spf1 \"x\""`},
		{name: "empty txt", rrType: "TXT", content: "  ", want: `""`},
		{name: "a record untouched", rrType: "A", content: "192.0.2.1", want: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteContent(tt.rrType, tt.content))
		})
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		wantName string
		wantType string
		wantErr  bool
	}{
		{name: "apex default type", key: "@", wantName: "example.org.", wantType: "TXT"},
		{name: "relative with type", key: "www/a", wantName: "www.example.org.", wantType: "A"},
		{name: "absolute", key: "mail.example.net./MX", wantName: "mail.example.net.", wantType: "MX"},
		{name: "already inside zone", key: "api.example.org/CNAME", wantName: "api.example.org.", wantType: "CNAME"},
		{name: "zone itself", key: "example.org/NS", wantName: "example.org.", wantType: "NS"},
		{name: "empty name", key: "/A", wantErr: true},
		{name: "bad type", key: "www/a-b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, rrType, err := parseKey("example.org", tt.key)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRecordKey)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantType, rrType)
		})
	}
}

func TestBuildRRsets(t *testing.T) {
	sets, err := buildRRsets("example.org.", map[string]string{
		"www/A": "192.0.2.1\n192.0.2.2\n",
		"@":     "hello",
	}, 60)
	require.NoError(t, err)
	require.Len(t, sets, 2)

	// sorted by key: "@" before "www/A"
	assert.Equal(t, "example.org.", *sets[0].Name)
	assert.Equal(t, "TXT", string(*sets[0].Type))
	require.Len(t, sets[0].Records, 1)
	assert.Equal(t, `"hello"`, *sets[0].Records[0].Content)

	assert.Equal(t, "www.example.org.", *sets[1].Name)
	assert.Equal(t, uint32(60), *sets[1].TTL)
	assert.Equal(t, "REPLACE", string(*sets[1].ChangeType))
	require.Len(t, sets[1].Records, 2)
	assert.Equal(t, "192.0.2.2", *sets[1].Records[1].Content)

	_, err = buildRRsets("example.org", map[string]string{"/A": "x"}, 60)
	require.ErrorIs(t, err, ErrInvalidRecordKey)
}

func TestBuildRRsets_TXTLines(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "trailing newline", value: "a\n", want: []string{`"a"`}},
		{name: "blank lines between", value: "a\n\n  \nb", want: []string{`"a"`, `"b"`}},
		{name: "empty value", value: "", want: []string{`""`}},
		{name: "only newlines", value: "\n\n", want: []string{`""`}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sets, err := buildRRsets("example.org.", map[string]string{"www": tc.value}, 60)
			require.NoError(t, err)
			require.Len(t, sets, 1)

			var got []string
			for _, r := range sets[0].Records {
				got = append(got, *r.Content)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuildRRsets_MergesKeysOfTheSameRRset(t *testing.T) {
	sets, err := buildRRsets("example.org.", map[string]string{
		"www":                  "a",
		"www/TXT":              "b\na",
		"www.example.org./txt": "c",
		"www/A":                "192.0.2.1",
	}, 60)
	require.NoError(t, err)
	require.Len(t, sets, 2)

	// keys sort as "www", "www.example.org./txt", "www/A", "www/TXT"
	assert.Equal(t, "www.example.org.", *sets[0].Name)
	assert.Equal(t, "TXT", string(*sets[0].Type))

	var txt []string
	for _, r := range sets[0].Records {
		txt = append(txt, *r.Content)
	}
	assert.Equal(t, []string{`"a"`, `"c"`, `"b"`}, txt)

	assert.Equal(t, "A", string(*sets[1].Type))
	require.Len(t, sets[1].Records, 1)
}
