package docker

import (
	"context"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/odooghost/odooghost/internal/model"
)

// ListStackContainers returns the containers matching args, stopped ones
// included. Pass ManagedFilter or StackFilter. Containers whose labels do
// not identify a stack are skipped.
func ListStackContainers(ctx context.Context, cli EngineClient, args filters.Args) ([]model.StackContainer, error) {
	containers, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: args,
	})
	if err != nil {
		return nil, err
	}

	result := make([]model.StackContainer, 0, len(containers))
	for _, c := range containers {
		ref, err := ParseLabels(c.Labels)
		if err != nil {
			continue
		}
		result = append(result, toStackContainer(c, *ref))
	}
	return result, nil
}

func toStackContainer(c container.Summary, ref model.StackRef) model.StackContainer {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}
	return model.StackContainer{
		ID:    c.ID,
		Name:  name,
		Image: c.Image,
		State: c.State,
		Ref:   ref,
	}
}

// GroupByStack groups containers by stack name.
func GroupByStack(containers []model.StackContainer) map[string][]model.StackContainer {
	groups := make(map[string][]model.StackContainer)
	for _, c := range containers {
		groups[c.Ref.Stack] = append(groups[c.Ref.Stack], c)
	}
	return groups
}

// SummarizeStacks counts containers per stack, sorted by stack name.
func SummarizeStacks(containers []model.StackContainer) []model.StackSummary {
	groups := GroupByStack(containers)

	summaries := make([]model.StackSummary, 0, len(groups))
	for name, members := range groups {
		s := model.StackSummary{Name: name, Containers: len(members)}
		for _, c := range members {
			if c.State == "running" {
				s.Running++
			}
		}
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}
