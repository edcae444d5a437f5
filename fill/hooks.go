package fill

import "sync"

// Hooks 是可选的通知回调。
type Hooks struct {
	// Success 在容器适配成功后调用。
	Success func(Container)
	// Callback 是 Success 的旧名字，仅当 Success 为空时使用，并输出一次警告。
	//
	// Deprecated: 使用 Success。
	Callback func(Container)
	// Fail 在校验发现溢出后调用，与成功通知互斥。
	Fail func(Container)
	// Complete 在整批容器处理完后调用一次。
	Complete func([]Container)
}

type successKind int

const (
	successNone successKind = iota
	successHook
	successLegacy
)

// sinks 是 Hooks 在构造配置时解析出的固定形态。
type sinks struct {
	kind     successKind
	success  func(Container)
	fail     func(Container)
	complete func([]Container)
	warnOnce *sync.Once
}

func (h Hooks) resolve() sinks {
	s := sinks{fail: h.Fail, complete: h.Complete}
	switch {
	case h.Success != nil:
		s.kind = successHook
		s.success = h.Success
	case h.Callback != nil:
		s.kind = successLegacy
		s.success = h.Callback
		s.warnOnce = &sync.Once{}
	}
	return s
}

func (s sinks) notifySuccess(c Container) {
	switch s.kind {
	case successHook:
		s.success(c)
	case successLegacy:
		s.warnOnce.Do(func() {
			Logger().Warn("[TextFill] callback is deprecated, use success instead")
		})
		s.success(c)
	}
}

func (s sinks) notifyFail(c Container) {
	if s.fail != nil {
		s.fail(c)
	}
}

func (s sinks) notifyComplete(all []Container) {
	if s.complete != nil {
		s.complete(all)
	}
}
