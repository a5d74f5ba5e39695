package jwt

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// ClaimKind names a registered claim or a generic claim lookup kind for
// ClaimCheck.
type ClaimKind int

const (
	Issuer ClaimKind = iota
	Subject
	Audience
	JWTID
	ExpirationTime
	NotBefore
	IssuedAt
	String
	Int
	JSON
	Type
	ContentType
)

// Now is the sentinel ClaimCheck.Value for ExpirationTime/NotBefore/
// IssuedAt checks that compare against the instant passed to Validate
// rather than a fixed value.
type Now struct{}

// ClaimCheck describes one assertion Validate makes against a Token.
// Value == nil means "the claim must be present", for kinds where
// presence alone is meaningful (Audience, JWTID).
type ClaimCheck struct {
	Kind  ClaimKind
	Name  string // for String/Int/JSON kinds, the claim name
	Value any
}

// Validate runs every check against token in order, stopping at and
// returning the first failure.
func Validate(token *Token, checks []ClaimCheck, now time.Time) error {
	for _, c := range checks {
		if err := runClaimCheck(token, c, now); err != nil {
			return err
		}
	}
	return nil
}

func runClaimCheck(token *Token, c ClaimCheck, now time.Time) error {
	claims := token.Claims
	switch c.Kind {
	case Issuer:
		if c.Value == nil {
			if claims.Issuer == "" {
				return fmt.Errorf("jwt: iss claim is missing")
			}
			return nil
		}
		want, _ := c.Value.(string)
		if claims.Issuer != want {
			return fmt.Errorf("jwt: iss claim %q does not match %q", claims.Issuer, want)
		}
		return nil

	case Subject:
		if c.Value == nil {
			if claims.Subject == "" {
				return fmt.Errorf("jwt: sub claim is missing")
			}
			return nil
		}
		want, _ := c.Value.(string)
		if claims.Subject != want {
			return fmt.Errorf("jwt: sub claim %q does not match %q", claims.Subject, want)
		}
		return nil

	case Audience:
		if len(claims.Audience) == 0 {
			return fmt.Errorf("jwt: aud claim is missing")
		}
		if c.Value == nil {
			return nil
		}
		want, _ := c.Value.(string)
		for _, aud := range claims.Audience {
			if aud == want {
				return nil
			}
		}
		return fmt.Errorf("jwt: aud claim does not contain %q", want)

	case JWTID:
		if claims.JWTID == "" {
			return fmt.Errorf("jwt: jti claim is missing")
		}
		if c.Value == nil {
			return nil
		}
		if want, _ := c.Value.(string); claims.JWTID != want {
			return fmt.Errorf("jwt: jti claim %q does not match %q", claims.JWTID, want)
		}
		return nil

	case ExpirationTime:
		if claims.ExpirationTime.IsZero() {
			return fmt.Errorf("jwt: exp claim is missing")
		}
		at := now
		if t, ok := c.Value.(time.Time); ok {
			at = t
		}
		if !at.Before(claims.ExpirationTime) {
			return fmt.Errorf("jwt: token is expired")
		}
		return nil

	case NotBefore:
		if claims.NotBefore.IsZero() {
			return nil
		}
		at := now
		if t, ok := c.Value.(time.Time); ok {
			at = t
		}
		if at.Before(claims.NotBefore) {
			return fmt.Errorf("jwt: token is not valid yet")
		}
		return nil

	case IssuedAt:
		if claims.IssuedAt.IsZero() {
			return nil
		}
		at := now
		if t, ok := c.Value.(time.Time); ok {
			at = t
		}
		if at.Before(claims.IssuedAt) {
			return fmt.Errorf("jwt: iat claim is in the future")
		}
		return nil

	case String:
		got, ok := claims.Raw[c.Name].(string)
		if !ok {
			return fmt.Errorf("jwt: claim %q is missing or not a string", c.Name)
		}
		if c.Value == nil {
			return nil
		}
		if want, _ := c.Value.(string); got != want {
			return fmt.Errorf("jwt: claim %q value %q does not match %q", c.Name, got, want)
		}
		return nil

	case Int:
		got, ok := numericClaim(claims.Raw[c.Name])
		if !ok {
			return fmt.Errorf("jwt: claim %q is missing or not a number", c.Name)
		}
		if c.Value == nil {
			return nil
		}
		want, ok := numericClaim(c.Value)
		if !ok || got != want {
			return fmt.Errorf("jwt: claim %q value does not match", c.Name)
		}
		return nil

	case JSON:
		got, ok := claims.Raw[c.Name]
		if !ok {
			return fmt.Errorf("jwt: claim %q is missing", c.Name)
		}
		if c.Value == nil {
			return nil
		}
		if !reflect.DeepEqual(got, c.Value) {
			return fmt.Errorf("jwt: claim %q does not match the expected value", c.Name)
		}
		return nil

	case Type:
		got := token.Header.Type()
		if c.Value == nil {
			if got == "" {
				return fmt.Errorf("jwt: typ header is missing")
			}
			return nil
		}
		if want, _ := c.Value.(string); got != want {
			return fmt.Errorf("jwt: typ header %q does not match %q", got, want)
		}
		return nil

	case ContentType:
		got := token.Header.ContentType()
		if c.Value == nil {
			if got == "" {
				return fmt.Errorf("jwt: cty header is missing")
			}
			return nil
		}
		if want, _ := c.Value.(string); got != want {
			return fmt.Errorf("jwt: cty header %q does not match %q", got, want)
		}
		return nil
	}
	return fmt.Errorf("jwt: unknown claim check kind %d", c.Kind)
}

func numericClaim(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
