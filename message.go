package grpcfake

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

// copyMessage copies src into dst the way a real stream decodes a received
// message into the caller's value.
func copyMessage(dst, src any) error {
	d, ok := dst.(proto.Message)
	if !ok {
		return status.Errorf(codes.Internal, "grpcfake: cannot receive into %T", dst)
	}
	s, ok := src.(proto.Message)
	if !ok {
		return status.Errorf(codes.Internal, "grpcfake: cannot copy %T", src)
	}

	dn := d.ProtoReflect().Descriptor().FullName()
	sn := s.ProtoReflect().Descriptor().FullName()
	if dn != sn {
		return status.Errorf(codes.Internal, "grpcfake: cannot copy %s into %s", sn, dn)
	}

	proto.Reset(d)
	proto.Merge(d, s)
	return nil
}

// asMessage returns m as a *T, the form generated stream methods accept.
func asMessage[T any](m any) (*T, error) {
	msg, ok := m.(*T)
	if !ok {
		var want *T
		return nil, status.Errorf(codes.Internal, "grpcfake: cannot send %T, want %T", m, want)
	}
	return msg, nil
}
