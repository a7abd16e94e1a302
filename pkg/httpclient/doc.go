// Package httpclient はカタログAPIとのHTTP通信を行うクライアントを提供する。
//
// 画面操作の転送と起動時の初期データ投入の両方で使用する。
// 通信失敗はerrorとして、2xx以外の応答はResponseとして返すことで、
// 呼び出し側が「ネットワーク障害」と「リモートの拒否」を区別できるようにする。
package httpclient
