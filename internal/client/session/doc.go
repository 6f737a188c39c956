// Package session persists the single active login of the client.
//
// The record is stored as flat key-value pairs so that any metadata
// backend can hold it. Every value is a UTF-8 string:
//
//	session.user_id       user id
//	session.username      login name
//	session.email         e-mail address
//	session.first_name    first name
//	session.last_name     last name
//	session.avatar        avatar URL
//	session.phone         phone number
//	session.address       postal address
//	session.bio           free-form biography
//	session.auth_token    opaque session token
//	session.is_logged_in  "true" or "false"
package session
