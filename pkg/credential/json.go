package credential

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Member はJSONオブジェクトの1メンバー。
type Member struct {
	Key   string
	Value any
}

// Object はメンバーの出現順を保持するJSONオブジェクト。
// 深さ優先探索の結果が応答の記述順に依存するため、mapではなくスライスで持つ。
type Object []Member

// Get はキーに対応する値を返す。重複キーは最後の値を採用する。
func (o Object) Get(key string) (any, bool) {
	var (
		found any
		ok    bool
	)
	for _, m := range o {
		if m.Key == key {
			found, ok = m.Value, true
		}
	}
	return found, ok
}

// Decode はJSONを出現順を保ったまま汎用値に変換する。
// オブジェクトはObject、配列は[]any、数値はjson.Numberになる。
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("JSONの後に余分なデータがあります")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("JSONの解析に失敗: %w", err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := Object{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("JSONの解析に失敗: %w", err)
			}
			key, _ := keyTok.(string)
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, Member{Key: key, Value: val})
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("JSONの解析に失敗: %w", err)
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("JSONの解析に失敗: %w", err)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("予期しない区切り文字: %v", delim)
}

// truthy は値が空でないかを判定する。null・空文字列・false・0・空配列・空オブジェクトは空とみなす。
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case []any:
		return len(t) > 0
	case Object:
		return len(t) > 0
	}
	return true
}

// text は値をトークンとして扱う文字列に変換する。
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	var b strings.Builder
	writeJSON(&b, v)
	return b.String()
}

func writeJSON(b *strings.Builder, v any) {
	switch t := v.(type) {
	case Object:
		b.WriteByte('{')
		for i, m := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			key, _ := json.Marshal(m.Key)
			b.Write(key)
			b.WriteByte(':')
			writeJSON(b, m.Value)
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(b, item)
		}
		b.WriteByte(']')
	case json.Number:
		b.WriteString(t.String())
	case nil:
		b.WriteString("null")
	default:
		enc, _ := json.Marshal(t)
		b.Write(enc)
	}
}
