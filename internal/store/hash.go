package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainQuery is the hash domain for catalog query IDs.
// The version suffix leaves room for a future algorithm change.
const DomainQuery = "yql/query/v1"

// hashWithDomain computes SHA-256 with domain separation:
// SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// QueryID is the content-addressed ID of a named rendered query.
// The same name and text always yield the same ID.
func QueryID(name, text string) string {
	data := make([]byte, 0, len(name)+1+len(text))
	data = append(data, name...)
	data = append(data, 0x00)
	data = append(data, text...)
	return hashWithDomain(DomainQuery, data)
}
