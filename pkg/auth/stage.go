package auth

// Stage is a step of the authentication state machine:
// AwaitToken, Decoding, SessionLookup, SignatureVerify, then Authenticated.
// A failure at any step rejects the request.
type Stage uint8

const (
	StageAwaitToken Stage = iota
	StageDecoding
	StageSessionLookup
	StageSignatureVerify
	StageAuthenticated
)

func (s Stage) String() string {
	switch s {
	case StageAwaitToken:
		return "await_token"
	case StageDecoding:
		return "decoding"
	case StageSessionLookup:
		return "session_lookup"
	case StageSignatureVerify:
		return "signature_verify"
	case StageAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
