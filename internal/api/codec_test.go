package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestCodec_AuthResponseRoundTrip(t *testing.T) {
	in := &AuthResponse{
		AccessToken:      "a",
		RefreshToken:     "r",
		AccessExpiresAt:  time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC),
		RefreshExpiresAt: time.Date(2026, 1, 31, 0, 0, 0, 500, time.UTC),
		User:             User{ID: "1", Email: "a@x.com", IsActivated: true},
	}
	b, err := Codec{}.Marshal(in)
	require.NoError(t, err)

	var out AuthResponse
	require.NoError(t, Codec{}.Unmarshal(b, &out))
	assert.Equal(t, in, &out)
}

func TestCodec_TimestampMatchesWellKnownType(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)
	b, err := Codec{}.Marshal(&LogoutResponse{ExpiresAt: at})
	require.NoError(t, err)

	num, typ, n := protowire.ConsumeTag(b)
	require.Greater(t, n, 0)
	assert.Equal(t, protowire.Number(3), num)
	assert.Equal(t, protowire.BytesType, typ)

	raw, m := protowire.ConsumeBytes(b[n:])
	require.Greater(t, m, 0)

	var ts timestamppb.Timestamp
	require.NoError(t, proto.Unmarshal(raw, &ts))
	assert.True(t, at.Equal(ts.AsTime()))
}

func TestCodec_ZeroValuesAreOmitted(t *testing.T) {
	b, err := Codec{}.Marshal(&LogoutResponse{})
	require.NoError(t, err)
	assert.Empty(t, b)

	var out LogoutResponse
	require.NoError(t, Codec{}.Unmarshal(b, &out))
	assert.True(t, out.ExpiresAt.IsZero())
}

func TestCodec_ListUsersRepeated(t *testing.T) {
	in := &ListUsersResponse{Users: []User{
		{ID: "u1", Email: "a@x.com", IsActivated: true},
		{ID: "u2", Email: "b@x.com"},
	}}
	b, err := Codec{}.Marshal(in)
	require.NoError(t, err)

	var out ListUsersResponse
	require.NoError(t, Codec{}.Unmarshal(b, &out))
	assert.Equal(t, in.Users, out.Users)
}

func TestCodec_SkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 9, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, "a@x.com")
	b = protowire.AppendTag(b, 7, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 1)

	var out LoginRequest
	require.NoError(t, Codec{}.Unmarshal(b, &out))
	assert.Equal(t, "a@x.com", out.Email)
}

func TestCodec_UnmarshalEmpty(t *testing.T) {
	var req PingRequest
	assert.NoError(t, Codec{}.Unmarshal(nil, &req))
}

func TestCodec_UnmarshalMalformed(t *testing.T) {
	tests := map[string][]byte{
		"truncated tag":    {0x80},
		"truncated string": {0x0a, 0x05, 'a'},
		"wrong wire type":  {0x08, 0x01},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			var req LoginRequest
			assert.Error(t, Codec{}.Unmarshal(in, &req))
		})
	}
}

func TestCodec_RejectsNonMessages(t *testing.T) {
	_, err := Codec{}.Marshal(struct{}{})
	assert.Error(t, err)

	var s string
	assert.Error(t, Codec{}.Unmarshal([]byte{0x0a, 0x00}, &s))
}

func TestCodec_Name(t *testing.T) {
	assert.Equal(t, "proto", Codec{}.Name())
}

func TestServiceDesc_Methods(t *testing.T) {
	names := make([]string, 0, len(AuthServiceDesc.Methods))
	for _, m := range AuthServiceDesc.Methods {
		names = append(names, m.MethodName)
	}
	assert.Equal(t, []string{"Register", "Login", "Activate", "Logout", "Refresh", "ListUsers", "Ping"}, names)
	assert.Equal(t, "/gophauth.AuthService/ListUsers", MethodListUsers)
}
