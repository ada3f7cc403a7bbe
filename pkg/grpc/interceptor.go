package grpc

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// LoggingServerInterceptor 記錄每個 unary 呼叫的方法、耗時與狀態碼
func LoggingServerInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		event := log.Debug()
		if err != nil {
			event = log.Warn().Err(err)
		}
		event.Str("method", info.FullMethod).
			Str("code", status.Code(err).String()).
			Dur("elapsed", time.Since(start)).
			Msg("grpc request")
		return resp, err
	}
}

// LoggingClientInterceptor 給 Pool 使用 (WithInterceptor)
func LoggingClientInterceptor(log zerolog.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		event := log.Debug()
		if err != nil {
			event = log.Warn().Err(err)
		}
		event.Str("method", method).
			Str("target", cc.Target()).
			Dur("elapsed", time.Since(start)).
			Msg("grpc call")
		return err
	}
}
