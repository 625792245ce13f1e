// Package auth guards the operator endpoints with API keys.
//
// Keys come from server.auth.keys, either literally or through an
// environment variable:
//
//	server:
//	  auth:
//	    enabled: true
//	    keys:
//	      - name: ops
//	        key_env: SCOUT_OPS_KEY
//
// A request presents its key as "Authorization: Bearer <key>" or in the
// X-API-Key header. Keys are compared in constant time. A missing or
// unknown key gets 401 {"error": "Unauthorized"} with a WWW-Authenticate
// challenge; the key itself is never logged.
//
// The authenticated key's name is stored in the request context and can be
// read with KeyName.
package auth
