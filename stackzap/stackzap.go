// Package stackzap renders stackerr chains as structured zap fields.
//
// The root package stays free of logging; services that log with zap use
// this adapter so the frames of a report show up as fields instead of one
// multi-line string.
package stackzap

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xgx-io/stackerr"
)

// Chain returns a field holding err's root frame and its causes:
//
//	{"type": "Wrapper", "message": "...", "location": "f.go:10:0",
//	 "causes": [{"index": 1, "type": "Simple", "message": "...", "location": "..."},
//	            {"index": 2, "message": "disk full"}]}
//
// A nil err yields a no-op field.
func Chain(key string, err stackerr.StackError) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	if _, ok := stackerr.As(err); !ok {
		// typed nil
		return zap.Skip()
	}
	return zap.Object(key, chainObject{err: err})
}

// Error logs err under "error". When err is itself a StackError the field is
// its Chain. When a StackError is wrapped by plain errors, "error" holds the
// full message and "errorChain" the chain of the first StackError found.
// Otherwise it is zap.Error.
func Error(err error) zap.Field {
	se, ok := stackerr.As(err)
	if !ok {
		return zap.Error(err)
	}
	if _, self := err.(stackerr.StackError); self {
		return Chain("error", se)
	}
	return zap.Inline(wrappedObject{err: err, chain: chainObject{err: se}})
}

type wrappedObject struct {
	err   error
	chain chainObject
}

func (w wrappedObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("error", w.err.Error())
	return enc.AddObject("errorChain", w.chain)
}

type chainObject struct {
	err stackerr.StackError
}

func (c chainObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", c.err.TypeName())
	enc.AddString("message", c.err.Error())
	enc.AddString("location", c.err.StackLocation().String())
	if frames := stackerr.Frames(c.err); len(frames) > 0 {
		return enc.AddArray("causes", frameArray(frames))
	}
	return nil
}

type frameArray []stackerr.Frame

func (a frameArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, f := range a {
		if err := enc.AppendObject(frameObject(f)); err != nil {
			return err
		}
	}
	return nil
}

type frameObject stackerr.Frame

func (f frameObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("index", f.Index)
	if f.HasLocation {
		enc.AddString("type", f.TypeName)
	}
	enc.AddString("message", f.Message)
	if f.HasLocation {
		enc.AddString("location", f.Location.String())
	}
	return nil
}
