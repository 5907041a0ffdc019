// Package api is the wire contract of the auth service: request and
// response messages, the gRPC service descriptor and a client stub.
// Messages travel in the protobuf binary format described by auth.proto.
package api

import "time"

type RegisterRequest struct {
	Email    string
	Password string
}

func (m *RegisterRequest) MarshalProto(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	return appendString(b, 2, m.Password)
}

func (m *RegisterRequest) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		switch f.num {
		case 1:
			return consumeString(f, &m.Email)
		case 2:
			return consumeString(f, &m.Password)
		}
		return 0, nil
	})
}

type LoginRequest struct {
	Email    string
	Password string
}

func (m *LoginRequest) MarshalProto(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	return appendString(b, 2, m.Password)
}

func (m *LoginRequest) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		switch f.num {
		case 1:
			return consumeString(f, &m.Email)
		case 2:
			return consumeString(f, &m.Password)
		}
		return 0, nil
	})
}

type User struct {
	ID          string
	Email       string
	IsActivated bool
}

func (m *User) MarshalProto(b []byte) []byte {
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.Email)
	return appendBool(b, 3, m.IsActivated)
}

func (m *User) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		switch f.num {
		case 1:
			return consumeString(f, &m.ID)
		case 2:
			return consumeString(f, &m.Email)
		case 3:
			return consumeBool(f, &m.IsActivated)
		}
		return 0, nil
	})
}

// AuthResponse answers Register, Login and Refresh.
type AuthResponse struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	User             User
}

func (m *AuthResponse) MarshalProto(b []byte) []byte {
	b = appendString(b, 1, m.AccessToken)
	b = appendString(b, 2, m.RefreshToken)
	b = appendTime(b, 3, m.AccessExpiresAt)
	b = appendTime(b, 4, m.RefreshExpiresAt)
	return appendMessage(b, 5, &m.User)
}

func (m *AuthResponse) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		switch f.num {
		case 1:
			return consumeString(f, &m.AccessToken)
		case 2:
			return consumeString(f, &m.RefreshToken)
		case 3:
			return consumeTime(f, &m.AccessExpiresAt)
		case 4:
			return consumeTime(f, &m.RefreshExpiresAt)
		case 5:
			return consumeMessage(f, &m.User)
		}
		return 0, nil
	})
}

type ActivateRequest struct {
	Link string
}

func (m *ActivateRequest) MarshalProto(b []byte) []byte { return appendString(b, 1, m.Link) }

func (m *ActivateRequest) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		if f.num == 1 {
			return consumeString(f, &m.Link)
		}
		return 0, nil
	})
}

type ActivateResponse struct {
	RedirectURL string
}

func (m *ActivateResponse) MarshalProto(b []byte) []byte { return appendString(b, 1, m.RedirectURL) }

func (m *ActivateResponse) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		if f.num == 1 {
			return consumeString(f, &m.RedirectURL)
		}
		return 0, nil
	})
}

type LogoutRequest struct {
	RefreshToken string
}

func (m *LogoutRequest) MarshalProto(b []byte) []byte { return appendString(b, 1, m.RefreshToken) }

func (m *LogoutRequest) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		if f.num == 1 {
			return consumeString(f, &m.RefreshToken)
		}
		return 0, nil
	})
}

// LogoutResponse reports the session that was removed, if any.
type LogoutResponse struct {
	Removed   bool
	AccountID string
	ExpiresAt time.Time
}

func (m *LogoutResponse) MarshalProto(b []byte) []byte {
	b = appendBool(b, 1, m.Removed)
	b = appendString(b, 2, m.AccountID)
	return appendTime(b, 3, m.ExpiresAt)
}

func (m *LogoutResponse) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		switch f.num {
		case 1:
			return consumeBool(f, &m.Removed)
		case 2:
			return consumeString(f, &m.AccountID)
		case 3:
			return consumeTime(f, &m.ExpiresAt)
		}
		return 0, nil
	})
}

type RefreshRequest struct {
	RefreshToken string
}

func (m *RefreshRequest) MarshalProto(b []byte) []byte { return appendString(b, 1, m.RefreshToken) }

func (m *RefreshRequest) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		if f.num == 1 {
			return consumeString(f, &m.RefreshToken)
		}
		return 0, nil
	})
}

type ListUsersRequest struct{}

func (*ListUsersRequest) MarshalProto(b []byte) []byte { return b }

func (*ListUsersRequest) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(field) (int, error) { return 0, nil })
}

type ListUsersResponse struct {
	Users []User
}

func (m *ListUsersResponse) MarshalProto(b []byte) []byte {
	for i := range m.Users {
		b = appendMessage(b, 1, &m.Users[i])
	}
	return b
}

func (m *ListUsersResponse) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		if f.num != 1 {
			return 0, nil
		}
		var u User
		n, err := consumeMessage(f, &u)
		if err != nil {
			return 0, err
		}
		m.Users = append(m.Users, u)
		return n, nil
	})
}

type PingRequest struct{}

func (*PingRequest) MarshalProto(b []byte) []byte { return b }

func (*PingRequest) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(field) (int, error) { return 0, nil })
}

type PingResponse struct {
	Status string
}

func (m *PingResponse) MarshalProto(b []byte) []byte { return appendString(b, 1, m.Status) }

func (m *PingResponse) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		if f.num == 1 {
			return consumeString(f, &m.Status)
		}
		return 0, nil
	})
}
