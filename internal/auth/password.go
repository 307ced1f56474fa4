package auth

import "encoding/base64"

// encodedSecretMaxLen bounds the stored form of every secret.
const encodedSecretMaxLen = 20

// EncodePassword normalizes a plaintext secret into the form kept in the
// users table: the input is base64-encoded repeatedly until the encoding
// grows past 20 characters, then cut to exactly 20.
//
// This is NOT a cryptographic hash. It is reversible and weak, and it is kept
// only because every stored secret was written with this exact scheme;
// replacing it would lock out existing accounts. New deployments that do not
// carry legacy rows should not reuse this scheme.
func EncodePassword(password string) string {
	if password == "" {
		return ""
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(password))
	if len(encoded) > encodedSecretMaxLen {
		return encoded[:encodedSecretMaxLen]
	}
	return EncodePassword(encoded)
}
