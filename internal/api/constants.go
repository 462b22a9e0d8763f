package api

import "time"

// authLimiterIdleTTL is how long an idle client's bucket is kept.
const authLimiterIdleTTL = 10 * time.Minute

// bearerSecurity marks an operation as requiring a bearer token.
var bearerSecurity = []map[string][]string{{"bearer": {}}}
