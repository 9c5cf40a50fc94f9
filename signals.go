package xmlctx

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for registry and serializer events.
var (
	SignalRegisterStart     = capitan.NewSignal("xmlctx.register.start", "Context registration beginning")
	SignalRegisterComplete  = capitan.NewSignal("xmlctx.register.complete", "Context registration finished")
	SignalContextBuilt      = capitan.NewSignal("xmlctx.context.built", "Context built for a type set")
	SignalResolveMiss       = capitan.NewSignal("xmlctx.resolve.miss", "No context covers the requested type")
	SignalStandaloneBuilt   = capitan.NewSignal("xmlctx.standalone.built", "Single-type fallback context built")
	SignalMarshalComplete   = capitan.NewSignal("xmlctx.marshal.complete", "Marshal operation finished")
	SignalUnmarshalComplete = capitan.NewSignal("xmlctx.unmarshal.complete", "Unmarshal operation finished")
)

// Keys for typed event data.
var (
	KeyBasePackage  = capitan.NewStringKey("base_package")
	KeyPackage      = capitan.NewStringKey("package")
	KeyNamespace    = capitan.NewStringKey("namespace")
	KeyTypeName     = capitan.NewStringKey("type_name")
	KeyContentType  = capitan.NewStringKey("content_type")
	KeyTypeCount    = capitan.NewIntKey("type_count")
	KeyContextCount = capitan.NewIntKey("context_count")
	KeySize         = capitan.NewIntKey("size")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
)

// emitRegisterStart emits an event when registration begins.
func emitRegisterStart(ctx context.Context, base string) {
	capitan.Emit(ctx, SignalRegisterStart,
		KeyBasePackage.Field(base),
	)
}

// emitRegisterComplete emits an event when registration finishes.
func emitRegisterComplete(ctx context.Context, base string, duration time.Duration, types, contexts int, err error) {
	fields := []capitan.Field{
		KeyBasePackage.Field(base),
		KeyDuration.Field(duration),
		KeyTypeCount.Field(types),
		KeyContextCount.Field(contexts),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRegisterComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRegisterComplete, fields...)
	}
}

// emitContextBuilt emits an event for each context a registration builds.
func emitContextBuilt(ctx context.Context, base, namespace string, types int) {
	capitan.Emit(ctx, SignalContextBuilt,
		KeyBasePackage.Field(base),
		KeyNamespace.Field(namespace),
		KeyTypeCount.Field(types),
	)
}

// emitResolveMiss emits an event when resolution finds no context.
func emitResolveMiss(ctx context.Context, typeName, pkg string) {
	capitan.Emit(ctx, SignalResolveMiss,
		KeyTypeName.Field(typeName),
		KeyPackage.Field(pkg),
	)
}

// emitStandaloneBuilt emits an event when a fallback context is built.
func emitStandaloneBuilt(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalStandaloneBuilt,
		KeyTypeName.Field(typeName),
	)
}

// emitMarshalComplete emits an event when marshal finishes.
func emitMarshalComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMarshalComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalMarshalComplete, fields...)
	}
}

// emitUnmarshalComplete emits an event when unmarshal finishes.
func emitUnmarshalComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalUnmarshalComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalUnmarshalComplete, fields...)
	}
}
