// Package ebsynth 将 ebsynth 原生库封装为 patchmatch.Backend
//
// 默认以禁用模式构建（纯Go，不需要CGO）：Enabled 返回 false，所有后端类型均不可用，
// Run 返回错误。链接原生库需要开启CGO并使用
//
//	-tags ebsynth
//
// 构建，且 libebsynth 位于链接路径中（例如 `CGO_LDFLAGS=-L/opt/ebsynth/lib`）。
//
// 一个 Backend 对应进程内唯一的原生句柄，同一 Backend 上的 Run 调用串行执行。
package ebsynth
