package grpc

import (
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// Pool 依目標地址快取 gRPC 連線，同一個地址只建立一條
// 由 Pool 建立的連線預設使用 JSON codec
type Pool struct {
	conns       sync.Map // map[string]*grpc.ClientConn
	mu          sync.Mutex
	interceptor grpc.UnaryClientInterceptor
	keepalive   keepalive.ClientParameters
}

// PoolOption 定義了 Pool 的配置選項函數
type PoolOption func(*Pool)

// WithInterceptor 設定所有連線共用的 UnaryClientInterceptor (例如 LoggingClientInterceptor)
func WithInterceptor(interceptor grpc.UnaryClientInterceptor) PoolOption {
	return func(p *Pool) {
		p.interceptor = interceptor
	}
}

func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		keepalive: keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             time.Second,
			PermitWithoutStream: true,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetConnection 取得快取的連線，沒有或已關閉時建立新的
//
// 參數:
//
//	target: string - 目標地址 (e.g., "localhost:50051")
//	opts: ...grpc.DialOption - 額外選項，排在預設選項之後
//
// 回傳值:
//
//	*grpc.ClientConn: gRPC 客戶端連線物件
//	error: 若建立連線失敗則回傳錯誤
func (p *Pool) GetConnection(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	if conn, ok := p.load(target); ok {
		return conn, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// double-check: 等鎖期間可能已被其他 goroutine 建立
	if conn, ok := p.load(target); ok {
		return conn, nil
	}

	defaultOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(p.keepalive),
		grpc.WithDefaultCallOptions(JSONCallOption()),
	}
	if p.interceptor != nil {
		defaultOpts = append(defaultOpts, grpc.WithUnaryInterceptor(p.interceptor))
	}

	// grpc.NewClient 不會立即連線，第一次呼叫時才建立
	conn, err := grpc.NewClient(target, append(defaultOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for target %s: %w", target, err)
	}
	p.conns.Store(target, conn)
	return conn, nil
}

// load 讀取快取，已 Shutdown 的連線會被移除
func (p *Pool) load(target string) (*grpc.ClientConn, bool) {
	v, ok := p.conns.Load(target)
	if !ok {
		return nil, false
	}
	conn := v.(*grpc.ClientConn)
	if conn.GetState() == connectivity.Shutdown {
		p.conns.Delete(target)
		return nil, false
	}
	return conn, true
}

// Close 關閉所有連線，回傳第一個錯誤
func (p *Pool) Close() error {
	var firstErr error
	p.conns.Range(func(key, value any) bool {
		conn := value.(*grpc.ClientConn)
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.conns.Delete(key)
		return true
	})
	return firstErr
}
