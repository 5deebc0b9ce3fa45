package shopee

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Sign(t *testing.T) {
	c := NewClient(&Config{PartnerID: 2005001, PartnerKey: "test-partner-key"})

	path := "/api/v2/order/get_order_list"
	ts := int64(1700000000)
	token := "access-token-abc"
	shopID := int64(226)

	got := c.Sign(path, ts, token, shopID)

	base := fmt.Sprintf("%d%s%d%s%d", 2005001, path, ts, token, shopID)
	mac := hmac.New(sha256.New, []byte("test-partner-key"))
	mac.Write([]byte(base))
	want := hex.EncodeToString(mac.Sum(nil))

	if got != want {
		t.Errorf("Sign = %s, want %s", got, want)
	}
}

func TestClient_GetOrderList(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/order/get_order_list" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"error": "",
			"message": "",
			"response": {
				"more": false,
				"next_cursor": "",
				"total_count": 1,
				"order_list": [{"order_sn": "2206SN001", "order_status": "SHIPPED"}]
			}
		}`)
	}))
	defer srv.Close()

	c := NewClient(&Config{BaseURL: srv.URL, PartnerID: 1001, PartnerKey: "k"})
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	result, err := c.GetOrderList(context.Background(),
		&Credential{ShopID: 226, AccessToken: "tok"},
		&OrderListQuery{
			TimeRangeField: "create_time",
			TimeFrom:       1699000000,
			TimeTo:         1700000000,
			OrderStatus:    OrderStatusAll,
		})
	if err != nil {
		t.Fatalf("GetOrderList 出错: %v", err)
	}

	if len(result.OrderList) != 1 || result.OrderList[0].OrderSN != "2206SN001" {
		t.Errorf("order_list = %+v", result.OrderList)
	}
	if result.More {
		t.Error("more 应为 false")
	}

	// 鉴权参数必须齐全
	for _, key := range []string{"partner_id", "timestamp", "sign", "access_token", "shop_id"} {
		if gotQuery[key] == "" {
			t.Errorf("缺少查询参数 %s", key)
		}
	}
	if gotQuery["timestamp"] != "1700000000" {
		t.Errorf("timestamp = %s", gotQuery["timestamp"])
	}
	wantSign := c.Sign("/api/v2/order/get_order_list", 1700000000, "tok", 226)
	if gotQuery["sign"] != wantSign {
		t.Errorf("sign = %s, want %s", gotQuery["sign"], wantSign)
	}
}

func TestClient_APIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"error": "error_auth", "message": "Invalid access_token", "response": {}}`)
	}))
	defer srv.Close()

	c := NewClient(&Config{BaseURL: srv.URL, PartnerID: 1, PartnerKey: "k"})

	_, err := c.GetOrderList(context.Background(),
		&Credential{ShopID: 1, AccessToken: "bad"},
		&OrderListQuery{})
	if err == nil {
		t.Fatal("平台返回 error 字段时应报错")
	}
}
