package docker

import (
	"fmt"
	"strconv"

	"github.com/docker/docker/api/types/filters"

	"github.com/odooghost/odooghost/internal/constant"
	"github.com/odooghost/odooghost/internal/model"
)

// ManagedValue is the value of the bare constant.LabelName label on every
// resource odooghost creates.
const ManagedValue = "true"

// ManagedLabels returns the label set marking a resource as odooghost's
// without tying it to a stack (e.g. the common network).
func ManagedLabels() map[string]string {
	return map[string]string{
		constant.LabelName: ManagedValue,
	}
}

// BuildLabels constructs the label map collaborators apply to a stack's
// containers, volumes and networks. Empty service types are omitted;
// the one-off label is only present when set.
func BuildLabels(ref model.StackRef) map[string]string {
	labels := ManagedLabels()
	labels[constant.LabelStackName] = ref.Stack
	if ref.ServiceType != "" {
		labels[constant.LabelStackServiceType] = ref.ServiceType
	}
	if ref.OneOff {
		labels[constant.LabelOneOff] = strconv.FormatBool(true)
	}
	return labels
}

// ParseLabels reconstructs a StackRef from a resource's labels. It is the
// inverse of BuildLabels.
func ParseLabels(labels map[string]string) (*model.StackRef, error) {
	stack, ok := labels[constant.LabelStackName]
	if !ok || stack == "" {
		return nil, fmt.Errorf("missing required Docker label %s", constant.LabelStackName)
	}

	ref := &model.StackRef{
		Stack:       stack,
		ServiceType: labels[constant.LabelStackServiceType],
	}

	if v, ok := labels[constant.LabelOneOff]; ok {
		oneOff, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid label %s=%q: %w", constant.LabelOneOff, v, err)
		}
		ref.OneOff = oneOff
	}

	return ref, nil
}

// ManagedFilter returns list filters matching every resource odooghost
// created.
func ManagedFilter() filters.Args {
	return filters.NewArgs(
		filters.Arg("label", constant.LabelName+"="+ManagedValue),
	)
}

// StackFilter returns list filters matching the resources of one stack,
// optionally narrowed to a single service type.
func StackFilter(stack, serviceType string) filters.Args {
	args := ManagedFilter()
	args.Add("label", constant.LabelStackName+"="+stack)
	if serviceType != "" {
		args.Add("label", constant.LabelStackServiceType+"="+serviceType)
	}
	return args
}
