package proto

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

// Field names shared by requests and responses.
const (
	FieldUser        = "user"
	FieldUserID      = "user_id"
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldEmail       = "email"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldAccessToken = "access_token"
	FieldStatus      = "status"
)

// StatusOK is the Ping reply status.
const StatusOK = "OK"

// Strings builds a Struct of string values.
func Strings(fields map[string]string) *structpb.Struct {
	m := make(map[string]*structpb.Value, len(fields))
	for k, v := range fields {
		m[k] = structpb.NewStringValue(v)
	}
	return &structpb.Struct{Fields: m}
}

// String reads a string field. Missing fields read as "".
func String(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[key].GetStringValue()
}

func UserToStruct(u models.User) *structpb.Struct {
	return Strings(map[string]string{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"avatar":     u.Avatar,
		"phone":      u.Phone,
		"address":    u.Address,
		"bio":        u.Bio,
	})
}

func UserFromStruct(s *structpb.Struct) (models.User, error) {
	if s == nil {
		return models.User{}, fmt.Errorf("missing user")
	}
	for k, v := range s.GetFields() {
		if _, ok := v.GetKind().(*structpb.Value_StringValue); !ok {
			return models.User{}, fmt.Errorf("user field %q is not a string", k)
		}
	}
	return models.User{
		ID:        String(s, "id"),
		Username:  String(s, "username"),
		Email:     String(s, "email"),
		FirstName: String(s, "first_name"),
		LastName:  String(s, "last_name"),
		Avatar:    String(s, "avatar"),
		Phone:     String(s, "phone"),
		Address:   String(s, "address"),
		Bio:       String(s, "bio"),
	}, nil
}

// WithUser wraps u under the "user" key, adding extra string fields.
func WithUser(u models.User, extra map[string]string) *structpb.Struct {
	out := Strings(extra)
	out.Fields[FieldUser] = structpb.NewStructValue(UserToStruct(u))
	return out
}

// UserField extracts the nested "user" struct.
func UserField(s *structpb.Struct) (models.User, error) {
	return UserFromStruct(s.GetFields()[FieldUser].GetStructValue())
}

func RegistrationToStruct(r models.Registration) *structpb.Struct {
	return Strings(map[string]string{
		FieldUsername:  r.Username,
		FieldPassword:  r.Password,
		FieldEmail:     r.Email,
		FieldFirstName: r.FirstName,
		FieldLastName:  r.LastName,
	})
}

func RegistrationFromStruct(s *structpb.Struct) models.Registration {
	return models.Registration{
		Username:  String(s, FieldUsername),
		Password:  String(s, FieldPassword),
		Email:     String(s, FieldEmail),
		FirstName: String(s, FieldFirstName),
		LastName:  String(s, FieldLastName),
	}
}
