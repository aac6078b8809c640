package model_test

import (
	"fmt"
	"testing"

	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestQuerySet(t *testing.T) {
	t.Run("seed is first", func(t *testing.T) {
		qs := model.NewQuerySet("fui demitido sem justa causa")
		gt.Array(t, qs.Queries()).Length(1)
		gt.Value(t, qs.Queries()[0]).Equal("fui demitido sem justa causa")
	})

	t.Run("dedup is case and whitespace insensitive", func(t *testing.T) {
		qs := model.NewQuerySet("Dano Moral")
		gt.Value(t, qs.Add("dano  moral")).Equal(false)
		gt.Value(t, qs.Add("DANO MORAL")).Equal(false)
		gt.Value(t, qs.Add("dano moral negativação")).Equal(true)
		gt.Number(t, qs.Len()).Equal(2)
	})

	t.Run("rejects empty", func(t *testing.T) {
		qs := model.NewQuerySet("pensão alimentícia")
		gt.Value(t, qs.Add("   ")).Equal(false)
		gt.Number(t, qs.Len()).Equal(1)
	})

	t.Run("caps at max", func(t *testing.T) {
		qs := model.NewQuerySet("seed")
		for i := 0; i < model.MaxQueries*2; i++ {
			qs.Add(fmt.Sprintf("consulta %d", i))
		}
		gt.Number(t, qs.Len()).Equal(model.MaxQueries)
	})

	t.Run("head truncates safely", func(t *testing.T) {
		qs := model.NewQuerySet("seed")
		qs.Add("outra consulta")
		gt.Array(t, qs.Head(6)).Length(2)
		gt.Array(t, qs.Head(1)).Length(1)
	})
}
