package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testRequest はテストサーバーが受け取ったリクエスト情報を保持する構造体。
type testRequest struct {
	// Method はHTTPメソッド。
	Method string
	// Path はリクエストパス。
	Path string
	// Body はリクエストボディ。
	Body []byte
	// Headers はリクエストヘッダー。
	Headers http.Header
}

// testPayload はテスト用のリクエスト/レスポンスペイロード。
type testPayload struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TestNew はNew関数でクライアントが正しく生成されることを検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("末尾のスラッシュが除去されること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:5000/", time.Second)
		if client.BaseURL() != "http://localhost:5000" {
			t.Errorf("baseURL = %q, want %q", client.BaseURL(), "http://localhost:5000")
		}
	})

	t.Run("タイムアウト未指定の場合は8秒になること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:5000", 0)
		if client.httpClient.Timeout != DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
		}
	})

	t.Run("指定したタイムアウトが設定されること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:5000", 5*time.Second)
		if client.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want 5s", client.httpClient.Timeout)
		}
	})
}

// TestPostJSON はPostJSON関数を検証する。
func TestPostJSON(t *testing.T) {
	t.Parallel()

	t.Run("JSONボディとContent-Typeが送信されること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received.Method = r.Method
			received.Path = r.URL.Path
			received.Body, _ = io.ReadAll(r.Body)
			received.Headers = r.Header

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(testPayload{Name: "response", Value: 200})
		}))
		defer ts.Close()

		client := New(ts.URL, time.Second)
		resp, err := client.PostJSON(context.Background(), "/productos", testPayload{Name: "request", Value: 100})
		if err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}

		if received.Method != http.MethodPost {
			t.Errorf("Method = %q, want %q", received.Method, http.MethodPost)
		}
		if received.Path != "/productos" {
			t.Errorf("Path = %q, want %q", received.Path, "/productos")
		}
		if got := received.Headers.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want %q", got, "application/json")
		}

		var sent testPayload
		if err := json.Unmarshal(received.Body, &sent); err != nil {
			t.Fatalf("リクエストボディのパースに失敗: %v", err)
		}
		if sent.Name != "request" || sent.Value != 100 {
			t.Errorf("sent = %+v, want {request 100}", sent)
		}

		if !resp.OK() {
			t.Errorf("OK() = false, status=%d", resp.StatusCode)
		}
		var result testPayload
		if err := resp.DecodeJSON(&result); err != nil {
			t.Fatalf("DecodeJSON()でエラーが発生: %v", err)
		}
		if result.Name != "response" {
			t.Errorf("result.Name = %q, want %q", result.Name, "response")
		}
	})

	t.Run("4xx応答はエラーではなくResponseとして返ること", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"bad request"}`))
		}))
		defer ts.Close()

		client := New(ts.URL, time.Second)
		resp, err := client.PostJSON(context.Background(), "/login", testPayload{})
		if err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}
		if resp.OK() {
			t.Error("OK() = true, want false")
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
		if resp.Detail() != "bad request" {
			t.Errorf("Detail() = %q, want %q", resp.Detail(), "bad request")
		}
	})

	t.Run("シリアライズできないボディでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		client := New("http://127.0.0.1:1", time.Second)
		if _, err := client.PostJSON(context.Background(), "/x", make(chan int)); err == nil {
			t.Fatal("PostJSON()がエラーを返すべきだが、nilが返った")
		}
	})

	t.Run("キャンセルされたコンテキストでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		client := New(ts.URL, time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := client.PostJSON(ctx, "/x", testPayload{}); err == nil {
			t.Fatal("PostJSON()がエラーを返すべきだが、nilが返った")
		}
	})
}

// TestGet はGet関数を検証する。
func TestGet(t *testing.T) {
	t.Parallel()

	t.Run("GETリクエストにボディとContent-Typeが含まれないこと", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received.Method = r.Method
			received.Body, _ = io.ReadAll(r.Body)
			received.Headers = r.Header
			w.Write([]byte(`[]`))
		}))
		defer ts.Close()

		client := New(ts.URL, time.Second)
		if _, err := client.Get(context.Background(), "/productos"); err != nil {
			t.Fatalf("Get()でエラーが発生: %v", err)
		}
		if received.Method != http.MethodGet {
			t.Errorf("Method = %q, want %q", received.Method, http.MethodGet)
		}
		if len(received.Body) != 0 {
			t.Errorf("GETリクエストにボディが含まれている: %q", string(received.Body))
		}
		if got := received.Headers.Get("Content-Type"); got != "" {
			t.Errorf("Content-Type = %q, want empty string", got)
		}
	})

	t.Run("不正なJSONレスポンスでDecodeJSONがエラーを返すこと", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{invalid json}`))
		}))
		defer ts.Close()

		client := New(ts.URL, time.Second)
		resp, err := client.Get(context.Background(), "/productos/1")
		if err != nil {
			t.Fatalf("Get()でエラーが発生: %v", err)
		}
		var result map[string]any
		if err := resp.DecodeJSON(&result); err == nil {
			t.Fatal("DecodeJSON()がエラーを返すべきだが、nilが返った")
		}
	})

	t.Run("接続できないサーバーに対してエラーが返ること", func(t *testing.T) {
		t.Parallel()

		client := New("http://127.0.0.1:1", time.Second)
		if _, err := client.Get(context.Background(), "/productos"); err == nil {
			t.Fatal("Get()がエラーを返すべきだが、nilが返った")
		}
	})

	t.Run("タイムアウトを超えた場合にエラーが返ること", func(t *testing.T) {
		t.Parallel()

		done := make(chan struct{})
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-done:
			case <-r.Context().Done():
			}
		}))
		defer ts.Close()
		defer close(done)

		client := New(ts.URL, 50*time.Millisecond)
		if _, err := client.Get(context.Background(), "/slow"); err == nil {
			t.Fatal("Get()がエラーを返すべきだが、nilが返った")
		}
	})
}

// TestPutAndDelete はPutJSONとDelete関数のメソッドを検証する。
func TestPutAndDelete(t *testing.T) {
	t.Parallel()

	var methods []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := New(ts.URL, time.Second)
	if _, err := client.PutJSON(context.Background(), "/productos/3", testPayload{}); err != nil {
		t.Fatalf("PutJSON()でエラーが発生: %v", err)
	}
	if _, err := client.Delete(context.Background(), "/productos/3"); err != nil {
		t.Fatalf("Delete()でエラーが発生: %v", err)
	}

	want := []string{"PUT /productos/3", "DELETE /productos/3"}
	if len(methods) != len(want) {
		t.Fatalf("methods = %v, want %v", methods, want)
	}
	for i := range want {
		if methods[i] != want[i] {
			t.Errorf("methods[%d] = %q, want %q", i, methods[i], want[i])
		}
	}
}

// TestWithBearer はWithBearer関数を検証する。
func TestWithBearer(t *testing.T) {
	t.Parallel()

	t.Run("コンテキストのトークンがAuthorizationヘッダーになること", func(t *testing.T) {
		t.Parallel()

		var got string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
		}))
		defer ts.Close()

		client := New(ts.URL, time.Second)
		ctx := WithBearer(context.Background(), "xyz")
		if _, err := client.Get(ctx, "/productos"); err != nil {
			t.Fatalf("Get()でエラーが発生: %v", err)
		}
		if got != "Bearer xyz" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer xyz")
		}
	})

	t.Run("トークン未設定の場合はAuthorizationヘッダーが付かないこと", func(t *testing.T) {
		t.Parallel()

		var has bool
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, has = r.Header["Authorization"]
		}))
		defer ts.Close()

		client := New(ts.URL, time.Second)
		if _, err := client.Get(context.Background(), "/productos"); err != nil {
			t.Fatalf("Get()でエラーが発生: %v", err)
		}
		if has {
			t.Error("Authorizationヘッダーが設定されるべきではない")
		}
	})

	t.Run("リクエストIDが伝播されること", func(t *testing.T) {
		t.Parallel()

		var got string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("X-Request-ID")
		}))
		defer ts.Close()

		client := New(ts.URL, time.Second)
		ctx := WithRequestID(context.Background(), "req-1")
		if _, err := client.Get(ctx, "/productos"); err != nil {
			t.Fatalf("Get()でエラーが発生: %v", err)
		}
		if got != "req-1" {
			t.Errorf("X-Request-ID = %q, want %q", got, "req-1")
		}
	})
}

// TestResponseDetail はResponse.Detailの取り出し規則を検証する。
func TestResponseDetail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "messageを優先する", body: `{"message":"bad credentials","detail":"x"}`, want: "bad credentials"},
		{name: "messageが無ければdetailを使う", body: `{"detail":"not found"}`, want: "not found"},
		{name: "空のmessageはdetailにフォールバックする", body: `{"message":"","detail":"d"}`, want: "d"},
		{name: "どちらも無ければ空文字列", body: `{"error":"x"}`, want: ""},
		{name: "JSONでなければ生テキスト", body: "Internal Server Error\n", want: "Internal Server Error"},
		{name: "配列は生テキスト", body: `["a"]`, want: `["a"]`},
		{name: "文字列以外のdetailはJSON表現", body: `{"detail":[{"loc":"x"}]}`, want: `[{"loc":"x"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := &Response{StatusCode: http.StatusBadRequest, Body: []byte(tt.body)}
			if got := resp.Detail(); got != tt.want {
				t.Errorf("Detail() = %q, want %q", got, tt.want)
			}
		})
	}
}
