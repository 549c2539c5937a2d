package syncfile

import "errors"

var (
	// ErrNoLinkedFile reports a sync or pull with nothing linked.
	ErrNoLinkedFile = errors.New("no backup file is linked")

	// ErrPermissionDenied reports a refused file-handle access. The
	// link is left intact so the user can fix permissions and retry.
	ErrPermissionDenied = errors.New("permission denied for linked file")

	// ErrPullUnsupported reports a pull against a fallback link,
	// which has no handle to re-read. The manual import path is the
	// pull equivalent there.
	ErrPullUnsupported = errors.New("pull requires a native file link; use import instead")
)
