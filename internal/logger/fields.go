package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the embedding provider name.
	FieldProvider = "similarity_provider"
	// FieldModel is the structured log field key for the embedding model identifier.
	FieldModel = "similarity_model"
	// FieldResumeWords is the word count of the analysed résumé.
	FieldResumeWords = "resume_words"
	// FieldJobWords is the word count of the job description.
	FieldJobWords = "job_words"
	// FieldComponent names the engine component emitting the entry.
	FieldComponent = "component"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	l = OrNop(l)

	if len(fields) == 0 {
		return l
	}

	return l.With(fields...)
}

// CommonFields returns the fields describing the similarity provider and model.
// Empty values are ignored to keep log entries compact.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the provider fields to the logger.
func WithCommonFields(l *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(l, CommonFields(provider, model)...)
}

// WithComponent tags every entry of the returned logger with the component name.
func WithComponent(l *zap.Logger, component string) *zap.Logger {
	return WithFields(l, StringFields(StringField{Key: FieldComponent, Value: component})...)
}

// AnalysisFields describes the size of one analysis request.
func AnalysisFields(resumeWords, jobWords int) []zap.Field {
	return []zap.Field{
		zap.Int(FieldResumeWords, resumeWords),
		zap.Int(FieldJobWords, jobWords),
	}
}
