// Package frontend はカタログ管理画面のHTTPサーバーを提供する。
//
// ブラウザからのフォーム送信とURLを受け取り、リモートのカタログAPIへ
// 転送した結果をHTML画面またはリダイレクトに変換する。
// ログインで得たトークンはセッションごとに保持し、商品の操作に付与する。
package frontend
