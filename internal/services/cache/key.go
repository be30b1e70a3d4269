package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// Key derives the deterministic cache key for one remote check. Variants are
// sorted before hashing so the key is insensitive to their order; the model
// name is part of the key so switching models never serves stale verdicts.
func Key(answer string, variants []string, questionContext, model string) string {
	sorted := append([]string(nil), variants...)
	sort.Strings(sorted)
	payload, _ := json.Marshal(sorted)
	sum := md5.Sum([]byte(answer + "_" + string(payload) + "_" + questionContext + "_" + model))
	return hex.EncodeToString(sum[:])
}
