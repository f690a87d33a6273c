package blacklist

import "errors"

var (
	errMissingEquals   = errors.New("blacklist: signature-provider missing '=' separator")
	errMissingColon    = errors.New("blacklist: signature-provider missing ':' separator")
	errShortKeyPayload = errors.New("blacklist: KEY payload too short to be a valid private key")
)
