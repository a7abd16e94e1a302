// Package middleware はGinベースのWebフロントエンドで使用する共通ミドルウェアを提供する。
//
// 署名付きCookieによるセッション確立、リクエストID、リクエストログ、
// パニックリカバリを含む。
package middleware
