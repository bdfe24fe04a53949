package dataframe

import (
	"fmt"

	"github.com/go-sif/sifread"
)

// GetParent returns the parent DataFrame of a DataFrame, or nil if it is the root
func GetParent(df sifread.DataFrame) sifread.DataFrame {
	impl, ok := df.(*dataFrameImpl)
	if !ok || impl.parent == nil {
		return nil
	}
	return impl.parent
}

// Optimize flattens a DataFrame chain into a Plan, from the root DataFrame
// to the given one. LimitTasks are removed from the task list and recorded
// in Plan.Limit, so that an executor can stop loading once enough rows exist.
func Optimize(df sifread.DataFrame) (*Plan, error) {
	impl, ok := df.(*dataFrameImpl)
	if !ok {
		return nil, fmt.Errorf("DataFrame of type %T was not created by sifread", df)
	}
	// create a slice of frames, in order of execution, by following parent links
	frames := []*dataFrameImpl{}
	for next := impl; next != nil; next = next.parent {
		frames = append([]*dataFrameImpl{next}, frames...)
	}
	plan := &Plan{
		Source:     impl.source,
		Parser:     impl.parser,
		LoadSchema: frames[0].schema,
		Schema:     impl.schema,
		Tasks:      make([]sifread.Task, 0, len(frames)),
		Limit:      -1,
	}
	for i, f := range frames {
		switch f.taskType {
		case sifread.ExtractTaskType, sifread.NoOpTaskType:
			continue
		case sifread.LimitTaskType:
			if i+1 < len(frames) {
				return nil, fmt.Errorf("no tasks can follow a Limit()")
			}
			plan.Limit = f.task.(sifread.LimitTask).GetLimit()
		default:
			plan.Tasks = append(plan.Tasks, f.task)
		}
	}
	return plan, nil
}
