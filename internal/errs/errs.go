// Package errs defines the failure taxonomy of the translation pipeline.
// None of these errors escapes the orchestrator: each is converted into a
// degraded Outcome and logged.
package errs

import "fmt"

// Status tags how a stage finished.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusFailed   Status = "failed"
)

// Reason tags why a stage degraded or failed.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonDetection   Reason = "detection_failure"
	ReasonTranslation Reason = "translation_failure"
	ReasonRecognition Reason = "recognition_failure"
	ReasonStorage     Reason = "storage_failure"
)

// Outcome is the explicit result tag threaded through each stage.
type Outcome struct {
	Status Status `json:"status"`
	Reason Reason `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func OK() Outcome { return Outcome{Status: StatusOK} }

func Degraded(reason Reason, err error) Outcome {
	return Outcome{Status: StatusDegraded, Reason: reason, Detail: detail(err)}
}

func Failed(reason Reason, err error) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason, Detail: detail(err)}
}

// Worse returns whichever outcome is more severe; the first wins on ties.
func Worse(a, b Outcome) Outcome {
	if rank(b.Status) > rank(a.Status) {
		return b
	}
	return a
}

func rank(s Status) int {
	switch s {
	case StatusFailed:
		return 2
	case StatusDegraded:
		return 1
	default:
		return 0
	}
}

func detail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// DetectionError means no language detector produced a usable answer.
type DetectionError struct {
	Detector string
	Cause    error
}

func (e *DetectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("detection error (%s): %v", e.Detector, e.Cause)
	}
	return fmt.Sprintf("detection error (%s)", e.Detector)
}

func (e *DetectionError) Unwrap() error { return e.Cause }

// TranslationError indicates a translator service failure.
type TranslationError struct {
	Service string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("translation error (%s): %v", e.Service, e.Cause)
	}
	return fmt.Sprintf("translation error (%s)", e.Service)
}

func (e *TranslationError) Unwrap() error { return e.Cause }

// RecognitionError indicates an entity recognizer failure.
type RecognitionError struct {
	Cause error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognition error: %v", e.Cause)
}

func (e *RecognitionError) Unwrap() error { return e.Cause }

// StorageError indicates a translation memory failure.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }
