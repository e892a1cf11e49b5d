package factory

import "EntityFactory/modules/kit/errx"

// Code 表示工厂模块的错误码。
type Code = errx.Code

const (
	CodeMissingConstructorArgument Code = "FACTORY_MISSING_CONSTRUCTOR_ARGUMENT"
	CodeRelationshipNotCollection  Code = "FACTORY_RELATIONSHIP_NOT_COLLECTION"
	CodeUnresolvableRelationship   Code = "FACTORY_UNRESOLVABLE_RELATIONSHIP"
	CodeInvalidRelationArgument    Code = "FACTORY_INVALID_RELATION_ARGUMENT"
	CodeInvalidState               Code = "FACTORY_INVALID_STATE"
	CodeNoPersister                Code = "FACTORY_NO_PERSISTER"
	CodeNotRegistered              Code = "FACTORY_NOT_REGISTERED"
	CodeNoInverseSide              Code = "FACTORY_NO_INVERSE_SIDE"
)

// Error 复用通用错误模型。
type Error = errx.Error

// 哨兵错误：通过 WithMsgf/WithData 派生，禁止直接修改。
var (
	// ErrMissingConstructorArgument 构造器声明了必填参数，但属性里没有同名键。
	ErrMissingConstructorArgument = errx.NewBiz(CodeMissingConstructorArgument, "")
	// ErrRelationshipNotCollection 父实体上不存在同名集合字段。
	ErrRelationshipNotCollection = errx.NewBiz(CodeRelationshipNotCollection, "")
	// ErrUnresolvableRelationship 按关系名找不到目标工厂。
	ErrUnresolvableRelationship = errx.NewBiz(CodeUnresolvableRelationship, "")
	ErrInvalidRelationArgument  = errx.NewBiz(CodeInvalidRelationArgument, "")
	ErrInvalidState             = errx.NewBiz(CodeInvalidState, "")
	ErrNoPersister              = errx.NewBiz(CodeNoPersister, "factory has no persister")
	ErrNotRegistered            = errx.NewBiz(CodeNotRegistered, "")
	// ErrNoInverseSide 只在多对多反向同步时使用，且只在一处被丢弃。
	ErrNoInverseSide = errx.NewBiz(CodeNoInverseSide, "")
)
