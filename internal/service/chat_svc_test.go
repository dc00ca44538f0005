package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_hub_202601/internal/model"
)

func TestChatService_Post(t *testing.T) {
	env := setupServiceTest(t)
	catalog := NewCatalogService(env.store, env.media, nil)
	svc := NewChatService(env.store)
	ctx := context.Background()
	r, cats := setupRestaurant(t, env, catalog, "alice")
	other, otherCats := setupRestaurant(t, env, catalog, "bob")
	carol := mustUser(t, env, "carol")

	dish, err := catalog.AddDish(ctx, r.ID, AddDishInput{CategoryID: cats[0].ID, Name: "Ramen", Description: "d", Price: "10", Image: pngUpload(t, "a.png", 10, 10)})
	require.NoError(t, err)
	foreign, err := catalog.AddDish(ctx, other.ID, AddDishInput{CategoryID: otherCats[0].ID, Name: "Tea", Description: "d", Price: "3", Image: pngUpload(t, "t.png", 10, 10)})
	require.NoError(t, err)

	base := func() PostChatInput {
		return PostChatInput{UserID: carol.ID, RestaurantID: r.ID, Role: model.ChatRoleUser, Scene: model.ChatSceneAdvisor, Content: "推荐什么"}
	}

	tests := []struct {
		name   string
		mutate func(in *PostChatInput)
		code   string
	}{
		{"bad role", func(in *PostChatInput) { in.Role = "system" }, CodeBadRole},
		{"bad scene", func(in *PostChatInput) { in.Scene = "other" }, CodeBadScene},
		{"dish scene without dish", func(in *PostChatInput) { in.Scene = model.ChatSceneDish }, CodeSceneDish},
		{"advisor with dish", func(in *PostChatInput) { in.DishID = &dish.ID }, CodeSceneDish},
		{"empty content", func(in *PostChatInput) { in.Content = "   " }, CodeContentEmpty},
		{"long content", func(in *PostChatInput) { in.Content = strings.Repeat("a", ChatContentMax+1) }, CodeContentTooLong},
		{"foreign dish", func(in *PostChatInput) { in.Scene = model.ChatSceneDish; in.DishID = &foreign.ID }, CodeNotFound},
		{"unknown restaurant", func(in *PostChatInput) { in.RestaurantID = 9999 }, CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.mutate(&in)
			_, err := svc.Post(ctx, in)
			assert.Equal(t, tt.code, CodeOf(err), "err = %v", err)
		})
	}

	_, err = svc.Post(ctx, base())
	require.NoError(t, err)
	in := base()
	in.Scene = model.ChatSceneDish
	in.DishID = &dish.ID
	in.Content = "辣吗"
	_, err = svc.Post(ctx, in)
	require.NoError(t, err)

	all, err := svc.List(ctx, carol.ID, r.ID, "", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "推荐什么", all[0].Content)

	dishOnly, err := svc.List(ctx, carol.ID, r.ID, model.ChatSceneDish, &dish.ID)
	require.NoError(t, err)
	require.Len(t, dishOnly, 1)
	assert.Equal(t, "辣吗", dishOnly[0].Content)

	_, err = svc.List(ctx, carol.ID, r.ID, "bogus", nil)
	assert.Equal(t, CodeBadScene, CodeOf(err))
}
