package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jimyag/taxo/internal/taxo/registry"
	"github.com/jimyag/taxo/pkg/apierror"
)

var (
	// ErrInvalidTaxonomy 分类法不存在
	ErrInvalidTaxonomy = registry.ErrInvalidTaxonomy
	// ErrInvalidLength 分类法名称长度不合法
	ErrInvalidLength = registry.ErrInvalidLength
	// ErrBuiltinProtected 内置分类法不能注销
	ErrBuiltinProtected = registry.ErrBuiltinProtected

	// ErrInvalidTermID 词条 ID 不合法
	ErrInvalidTermID = apierror.NewErrorWithStatus(
		"InvalidTermID",
		"Invalid term ID.",
		http.StatusBadRequest,
	)

	// ErrEmptyTerm 词条不存在
	ErrEmptyTerm = apierror.NewErrorWithStatus(
		"EmptyTerm",
		"Empty Term.",
		http.StatusNotFound,
	)

	// ErrEmptyName 词条名称为空
	ErrEmptyName = apierror.NewErrorWithStatus(
		"EmptyName",
		"A name is required for this term.",
		http.StatusBadRequest,
	)

	// ErrMissingParent 父词条不存在
	ErrMissingParent = apierror.NewErrorWithStatus(
		"MissingParent",
		"Parent term does not exist.",
		http.StatusBadRequest,
	)

	// ErrTermExists 重名或 slug 冲突，实际返回 *TermExistsError
	ErrTermExists = apierror.NewErrorWithStatus(
		"TermExists",
		"A term with the name provided already exists in this taxonomy.",
		http.StatusConflict,
	)

	// ErrAmbiguousTermID 词条被多个分类法共享，元数据操作无法确定目标
	ErrAmbiguousTermID = apierror.NewErrorWithStatus(
		"AmbiguousTermID",
		"Term meta cannot be modified for terms that are shared between taxonomies.",
		http.StatusConflict,
	)
)

// TermExistsError 携带已存在词条的 ID
type TermExistsError struct {
	TermID uint64
}

func (e *TermExistsError) Error() string {
	return fmt.Sprintf("%s (term_id: %d)", ErrTermExists.Error(), e.TermID)
}

// Is 与 ErrTermExists 按错误码匹配
func (e *TermExistsError) Is(target error) bool {
	t, ok := target.(*apierror.Error)
	return ok && t.Code == ErrTermExists.Code
}

// Unwrap 返回带 term_id 数据的 API 错误，供 HTTP 层渲染
func (e *TermExistsError) Unwrap() error {
	return ErrTermExists.WithData("term_id", e.TermID)
}

// ExistingTermID 从错误中取出已存在词条的 ID
func ExistingTermID(err error) (uint64, bool) {
	var exists *TermExistsError
	if errors.As(err, &exists) {
		return exists.TermID, true
	}
	return 0, false
}

func dbError(message string, err error) error {
	return apierror.WrapError(apierror.ErrDBError, message, err)
}
