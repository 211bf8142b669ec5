package encryptedattr

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for field-encryption events. Hook observers via capitan to trace
// registration and per-field transform activity without a logger dependency.
var (
	SignalFieldRegistered = capitan.NewSignal("encryptedattr.field.registered", "Encrypted field registered on a schema")
	SignalEncryptStart    = capitan.NewSignal("encryptedattr.encrypt.start", "Field encryption beginning")
	SignalEncryptComplete = capitan.NewSignal("encryptedattr.encrypt.complete", "Field encryption finished")
	SignalDecryptStart    = capitan.NewSignal("encryptedattr.decrypt.start", "Field decryption beginning")
	SignalDecryptComplete = capitan.NewSignal("encryptedattr.decrypt.complete", "Field decryption finished")
)

// Keys for typed event data.
var (
	KeySchema    = capitan.NewStringKey("schema")
	KeyField     = capitan.NewStringKey("field")
	KeyAttribute = capitan.NewStringKey("attribute")
	KeyMode      = capitan.NewStringKey("mode")
	KeyAlgorithm = capitan.NewStringKey("algorithm")
	KeySize      = capitan.NewIntKey("size")
	KeyDuration  = capitan.NewDurationKey("duration")
	KeyError     = capitan.NewErrorKey("error")
)

// The exported API carries no context; events are emitted on Background.

func emitFieldRegistered(schema, field, attribute string, mode Mode) {
	capitan.Emit(context.Background(), SignalFieldRegistered,
		KeySchema.Field(schema),
		KeyField.Field(field),
		KeyAttribute.Field(attribute),
		KeyMode.Field(string(mode)),
	)
}

func emitEncryptStart(schema, field string) {
	capitan.Emit(context.Background(), SignalEncryptStart,
		KeySchema.Field(schema),
		KeyField.Field(field),
	)
}

func emitEncryptComplete(schema, field, algorithm string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySchema.Field(schema),
		KeyField.Field(field),
		KeyAlgorithm.Field(algorithm),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(context.Background(), SignalEncryptComplete, fields...)
		return
	}
	capitan.Emit(context.Background(), SignalEncryptComplete, fields...)
}

func emitDecryptStart(schema, field string) {
	capitan.Emit(context.Background(), SignalDecryptStart,
		KeySchema.Field(schema),
		KeyField.Field(field),
	)
}

func emitDecryptComplete(schema, field, algorithm string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySchema.Field(schema),
		KeyField.Field(field),
		KeyAlgorithm.Field(algorithm),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(context.Background(), SignalDecryptComplete, fields...)
		return
	}
	capitan.Emit(context.Background(), SignalDecryptComplete, fields...)
}
