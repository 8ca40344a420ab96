// Package eventbus is the in-process bus for domain events. Handlers are
// plain functions matched by parameter types; it is used for side effects
// that stay inside the process (notification counters, cache invalidation),
// not for the realtime fan-out to clients.
package eventbus

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

type EventBus interface {
	Publish(args ...any)
	Subscribe(handler any)
	Unsubscribe(handler any)
	Clear()
	SubscribersCount() int
}

type subscriber struct {
	handler any
}

type publisherImpl struct {
	log         *logrus.Logger
	subscribers []subscriber
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisherImpl{log: log}
}

// matchSignature reports whether handler is a func whose parameters accept
// args positionally, including interface satisfaction.
func matchSignature(handler any, args []any) bool {
	t := reflect.TypeOf(handler)
	if t.Kind() != reflect.Func {
		return false
	}
	if t.NumIn() != len(args) {
		return false
	}

	for i, arg := range args {
		paramType := t.In(i)
		if arg == nil {
			if paramType.Kind() != reflect.Interface && paramType.Kind() != reflect.Ptr {
				return false
			}
			continue
		}
		argType := reflect.TypeOf(arg)
		if paramType.Kind() == reflect.Interface {
			if !argType.Implements(paramType) {
				return false
			}
			continue
		}
		if !argType.AssignableTo(paramType) {
			return false
		}
	}
	return true
}

func (p *publisherImpl) Publish(args ...any) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = reflect.ValueOf(arg)
	}

	handled := false
	for _, sub := range p.subscribers {
		if !matchSignature(sub.handler, args) {
			continue
		}
		v := reflect.ValueOf(sub.handler)
		// A panicking handler must not take down the publisher or the
		// remaining subscribers.
		func() {
			defer func() {
				if r := recover(); r != nil {
					if p.log != nil {
						p.log.Errorf("eventbus: handler %s panicked with args %v: %v", v.Type().String(), args, r)
					}
				}
			}()
			v.Call(in)
			handled = true
		}()
	}

	if !handled && p.log != nil {
		p.log.Warnf("eventbus.Publish: no matching subscribers for event with args: %v", in)
	}
}

func (p *publisherImpl) Subscribe(handler any) {
	if reflect.TypeOf(handler).Kind() != reflect.Func {
		panic("handler must be a function")
	}
	p.subscribers = append(p.subscribers, subscriber{handler: handler})
}

func (p *publisherImpl) Unsubscribe(handler any) {
	for i, sub := range p.subscribers {
		if sub.handler == handler {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			return
		}
	}
}

func (p *publisherImpl) Clear() {
	p.subscribers = nil
}

func (p *publisherImpl) SubscribersCount() int {
	return len(p.subscribers)
}
