package audio

import "codeberg.org/mutker/sstat/internal/errors"

const (
	ErrConnectFailed   = errors.ErrorCode("audio_connect_failed")
	ErrAuthFailed      = errors.ErrorCode("audio_auth_failed")
	ErrSetNameFailed   = errors.ErrorCode("audio_set_name_failed")
	ErrSubscribeFailed = errors.ErrorCode("audio_subscribe_failed")
	ErrConnectionLost  = errors.ErrorCode("audio_connection_lost")
	ErrEnumerateFailed = errors.ErrorCode("audio_enumerate_failed")
	ErrNoProfileIcon   = errors.ErrorCode("audio_no_profile_icon")
)
