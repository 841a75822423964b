package errors

var (
	ErrEmptyTargetID       = InvalidArg("target id is required")
	ErrEmptyConversationID = InvalidArg("conversation id is required")
	ErrEmptyMessage        = InvalidArg("message text is required")
	ErrNoMoreCards         = FailedPrecondition("no more cards")
	ErrNotAuthenticated    = Unauthorized("not authenticated")
	ErrRefreshExhausted    = Unauthorized("token refresh retries exhausted")
)

func ErrUploadFailed(cause error) error {
	return Wrap(CodeUnavailable, "media upload failed", cause)
}

func ErrRemote(op string, cause error) error {
	return Wrap(CodeUnavailable, op+" failed", cause)
}
