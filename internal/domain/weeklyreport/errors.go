package weeklyreport

import "errors"

var (
	ErrReportEmpty = errors.New("please enter your weekly report")
)
