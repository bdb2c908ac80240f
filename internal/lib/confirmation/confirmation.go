// Package confirmation derives sign-up confirmation codes from the current
// state of a user record. A code stays valid until any field that feeds the
// digest changes, so activating the account or stamping last_login on use
// invalidates it.
package confirmation

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"reviewhub/proj/internal/domain/models"
)

const codeLength = 24

const keySalt = "reviewhub.confirmation.Generator"

type Generator struct {
	key []byte
}

func NewGenerator(secret string) *Generator {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(keySalt))
	return &Generator{key: mac.Sum(nil)}
}

func (g *Generator) Make(user *models.User) string {
	mac := hmac.New(sha256.New, g.key)
	mac.Write([]byte(stateOf(user)))
	return hex.EncodeToString(mac.Sum(nil))[:codeLength]
}

// Check compares in constant time.
func (g *Generator) Check(user *models.User, code string) bool {
	if user == nil || len(code) != codeLength {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g.Make(user)), []byte(code)) == 1
}

func stateOf(u *models.User) string {
	var lastLogin int64
	if u.LastLogin != nil {
		lastLogin = micros(*u.LastLogin)
	}
	return strings.Join([]string{
		strconv.FormatInt(u.ID, 10),
		u.Username,
		u.Email,
		string(u.Role),
		strconv.FormatBool(u.IsSuperuser),
		strconv.FormatBool(u.IsActive),
		hex.EncodeToString(u.PasswordHash),
		strconv.FormatInt(lastLogin, 10),
		strconv.FormatInt(micros(u.UpdatedAt), 10),
	}, "|")
}

// micros matches the precision of a postgres timestamptz round trip.
func micros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}
