package model_test

import (
	"testing"

	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestCaseFrameMergeTags(t *testing.T) {
	t.Run("appends without duplicates", func(t *testing.T) {
		frame := model.CaseFrame{Tags: []string{"direito_penal_calunia"}}
		frame.MergeTags([]string{"direito_penal_calunia", "direito_penal", ""})
		gt.Array(t, frame.Tags).Length(2)
		gt.Value(t, frame.Tags[1]).Equal("direito_penal")
	})

	t.Run("preserves facts and goal", func(t *testing.T) {
		frame := model.CaseFrame{Facts: "cliente foi negativado", Goal: "remover negativação"}
		frame.MergeTags([]string{"consumidor_negativacao"})
		gt.Value(t, frame.Facts).Equal("cliente foi negativado")
		gt.Value(t, frame.Goal).Equal("remover negativação")
	})
}

func TestCaseFrameIsEmpty(t *testing.T) {
	gt.Value(t, model.CaseFrame{}.IsEmpty()).Equal(true)
	gt.Value(t, model.CaseFrame{Goal: "indenização"}.IsEmpty()).Equal(false)
}
