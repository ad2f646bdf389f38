package service

import "errors"

var (
	ErrInvalidSignature   = errors.New("invalid or expired download signature")
	ErrExaminationClosed  = errors.New("examination already completed")
	ErrReportFinalized    = errors.New("report already finalized")
)
