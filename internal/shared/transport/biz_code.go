package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
//
// 取值沿用 HTTP 状态码的区间：0 成功，1~499 业务拒绝，>=500 系统错误。
type BizCode int

const (
	OK            BizCode = 0
	BadRequest    BizCode = 400
	Unauthorized  BizCode = 401
	NotFound      BizCode = 404
	Unprocessable BizCode = 422
	SystemError   BizCode = 500
)
