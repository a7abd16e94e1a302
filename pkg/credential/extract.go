// Package credential はログイン応答からBearerトークンを取り出す。
//
// カタログAPIはトークンを返すフィールド名が固定されていないため、
// 汎用JSON値に対する純粋関数の戦略を順番に試し、最初に見つかった値を採用する。
package credential

import (
	"strings"
)

// Strategy は汎用JSON値からトークンを探す純粋関数。
// 見つからない場合は空文字列とfalseを返す。
type Strategy func(body any) (string, bool)

// TokenFields はトップレベルで確認するトークンフィールド名（優先順）。
var TokenFields = []string{
	"access_token",
	"token",
	"access",
	"jwt",
	"id_token",
	"authentication_token",
}

// DefaultStrategies はExtractが使用する戦略の順序。
var DefaultStrategies = []Strategy{
	NamedField(TokenFields...),
	JWTShape,
	NamedField("detail"),
}

// Extract はログイン成功時のレスポンスボディからトークンを取り出す。
// ボディがJSONとして解釈できない場合はボディ全体をトークンとみなす。
func Extract(raw []byte) (string, bool) {
	body, err := Decode(raw)
	if err != nil {
		text := string(raw)
		return text, text != ""
	}
	return ExtractFrom(body, DefaultStrategies...)
}

// ExtractFrom は戦略を順に適用し、最初に成功した結果を返す。
func ExtractFrom(body any, strategies ...Strategy) (string, bool) {
	for _, s := range strategies {
		if token, ok := s(body); ok {
			return token, true
		}
	}
	return "", false
}

// NamedField はトップレベルのオブジェクトから指定キーを順に探す戦略を返す。
// 最初に存在したキーの値だけを評価し、空値であれば見つからなかったものとする。
func NamedField(keys ...string) Strategy {
	return func(body any) (string, bool) {
		obj, ok := body.(Object)
		if !ok {
			return "", false
		}
		for _, key := range keys {
			v, exists := obj.Get(key)
			if !exists {
				continue
			}
			if !truthy(v) {
				return "", false
			}
			return text(v), true
		}
		return "", false
	}
}

// JWTShape はネストしたオブジェクトと配列を文書順の深さ優先で探索し、
// ちょうど2つの "." を含む最初の文字列を返す。
func JWTShape(body any) (string, bool) {
	switch v := body.(type) {
	case string:
		if strings.Count(v, ".") == 2 {
			return v, true
		}
	case Object:
		for _, m := range v {
			if token, ok := JWTShape(m.Value); ok {
				return token, true
			}
		}
	case []any:
		for _, child := range v {
			if token, ok := JWTShape(child); ok {
				return token, true
			}
		}
	}
	return "", false
}
