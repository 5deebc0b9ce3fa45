package relay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// ==================== Subscriber 重连订阅端 ====================

// 重连参数：基础退避 1s 逐次翻倍，连续失败 5 次后放弃
const (
	defaultBaseDelay   = time.Second
	defaultMaxAttempts = 5
)

// Subscriber 消费 SSE 推送流的客户端，断线自动重连
// 重连时携带上次的 connectionId，服务端据此复用连接标识
type Subscriber struct {
	url          string
	httpClient   *http.Client
	baseDelay    time.Duration
	maxAttempts  int
	connectionID string

	// OnFrame 每收到一帧调用一次；同一帧至多送达一次
	OnFrame func(Frame)
}

// NewSubscriber 创建订阅端
func NewSubscriber(url string) *Subscriber {
	return &Subscriber{
		url:         url,
		httpClient:  &http.Client{},
		baseDelay:   defaultBaseDelay,
		maxAttempts: defaultMaxAttempts,
	}
}

// WithBaseDelay 覆盖基础退避间隔
func (s *Subscriber) WithBaseDelay(d time.Duration) *Subscriber {
	s.baseDelay = d
	return s
}

// ConnectionID 当前持有的连接标识
func (s *Subscriber) ConnectionID() string {
	return s.connectionID
}

// Run 持续订阅直到 ctx 取消或连续失败超限
// 成功收到 connection_established 后失败计数清零
func (s *Subscriber) Run(ctx context.Context) error {
	attempt := 0
	for {
		err := s.connectOnce(ctx, func() { attempt = 0 })
		if ctx.Err() != nil {
			return ctx.Err()
		}

		attempt++
		if attempt >= s.maxAttempts {
			return fmt.Errorf("放弃重连: 连续失败 %d 次: %w", attempt, err)
		}

		delay := s.baseDelay << (attempt - 1)
		log.Printf("[Relay] 订阅中断(%v)，%v 后第 %d 次重连", err, delay, attempt+1)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Subscriber) connectOnce(ctx context.Context, onEstablished func()) error {
	url := s.url
	if s.connectionID != "" {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "connectionId=" + s.connectionID
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("订阅响应状态异常: %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data bytes.Buffer
	for scanner.Scan() {
		line := scanner.Bytes()

		// 空行表示一个事件结束
		if len(line) == 0 {
			if data.Len() > 0 {
				s.dispatch(data.Bytes(), onEstablished)
				data.Reset()
			}
			continue
		}
		if rest, ok := bytes.CutPrefix(line, []byte("data:")); ok {
			data.Write(bytes.TrimPrefix(rest, []byte(" ")))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return fmt.Errorf("推送流已关闭")
}

func (s *Subscriber) dispatch(raw []byte, onEstablished func()) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Printf("[Relay] 丢弃无法解析的帧: %v", err)
		return
	}

	if frame.Type == TypeConnectionEstablished {
		if frame.ConnectionID != "" {
			s.connectionID = frame.ConnectionID
		}
		onEstablished()
	}

	if s.OnFrame != nil {
		s.OnFrame(frame)
	}
}
